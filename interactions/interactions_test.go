package interactions

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"online/domain"
	"online/session"
)

type fakeGateway struct {
	liked    bool
	likeErr  error
	likeArgs [][2]int

	reposted  bool
	repostErr error

	comments     []domain.Comment
	commentsErr  error
	addErr       error
	addedContent string
	addCalls     int
	getCalls     int
}

func (f *fakeGateway) ToggleLike(postID, commentID int) (bool, error) {
	f.likeArgs = append(f.likeArgs, [2]int{postID, commentID})
	return f.liked, f.likeErr
}

func (f *fakeGateway) ToggleRepost(postID int) (bool, error) {
	return f.reposted, f.repostErr
}

func (f *fakeGateway) GetComments(postID int) ([]domain.Comment, error) {
	f.getCalls++
	return f.comments, f.commentsErr
}

func (f *fakeGateway) AddComment(postID int, content string, parentID int) error {
	f.addCalls++
	f.addedContent = content
	return f.addErr
}

func authedSession() *session.Session {
	sess := session.New()
	sess.SetAuth("token", &domain.User{ID: 1, Username: "me"})
	return sess
}

func trackedStore(gw *fakeGateway, sess *session.Session) *Store {
	s := NewStore(gw, sess)
	s.Track(domain.Post{ID: 10, LikesCount: 3, RepostsCount: 1, CommentsCount: 2, IsLiked: 0, IsReposted: 1})
	return s
}

func TestTrackSeedsFromBaseline(t *testing.T) {
	s := trackedStore(&fakeGateway{}, authedSession())

	st := s.Post(10)
	if st.Liked {
		t.Error("Expected is_liked 0 to seed Liked=false")
	}
	if !st.Reposted {
		t.Error("Expected is_reposted 1 to seed Reposted=true")
	}
	if st.Likes != 3 || st.Reposts != 1 || st.Comments != 2 {
		t.Errorf("Unexpected counters: %+v", st)
	}
}

func TestApplyLikeMovesCounterOnce(t *testing.T) {
	sess := authedSession()
	s := trackedStore(&fakeGateway{}, sess)
	epoch := sess.Epoch()

	s.ApplyLike(LikeToggledMsg{PostID: 10, Liked: true, Epoch: epoch})
	if st := s.Post(10); !st.Liked || st.Likes != 4 {
		t.Errorf("Expected liked with 4 likes, got %+v", st)
	}

	// A duplicate confirmation in the same direction must not double-count.
	s.ApplyLike(LikeToggledMsg{PostID: 10, Liked: true, Epoch: epoch})
	if st := s.Post(10); st.Likes != 4 {
		t.Errorf("Expected idempotent re-apply, got %d likes", st.Likes)
	}

	s.ApplyLike(LikeToggledMsg{PostID: 10, Liked: false, Epoch: epoch})
	if st := s.Post(10); st.Liked || st.Likes != 3 {
		t.Errorf("Expected unliked with 3 likes, got %+v", st)
	}
}

func TestApplyLikeFloorsAtZero(t *testing.T) {
	sess := authedSession()
	s := NewStore(&fakeGateway{}, sess)
	s.Track(domain.Post{ID: 5, LikesCount: 0, IsLiked: 1})

	s.ApplyLike(LikeToggledMsg{PostID: 5, Liked: false, Epoch: sess.Epoch()})
	if st := s.Post(5); st.Likes != 0 {
		t.Errorf("Expected counter floored at 0, got %d", st.Likes)
	}
}

func TestApplyLikeDiscardsFailures(t *testing.T) {
	sess := authedSession()
	s := trackedStore(&fakeGateway{}, sess)

	s.ApplyLike(LikeToggledMsg{PostID: 10, Liked: true, Epoch: sess.Epoch(), Err: errors.New("down")})
	if st := s.Post(10); st.Liked || st.Likes != 3 {
		t.Errorf("Expected failed toggle to leave state untouched, got %+v", st)
	}
}

func TestApplyLikeDiscardsStaleEpoch(t *testing.T) {
	sess := authedSession()
	s := trackedStore(&fakeGateway{}, sess)

	s.ApplyLike(LikeToggledMsg{PostID: 10, Liked: true, Epoch: uuid.New()})
	if st := s.Post(10); st.Liked {
		t.Error("Expected a foreign-epoch result to be discarded")
	}
}

func TestToggleLikeUnauthenticated(t *testing.T) {
	s := NewStore(&fakeGateway{}, session.New())
	if cmd := s.ToggleLike(10); cmd != nil {
		t.Error("Expected nil cmd when unauthenticated")
	}
}

func TestToggleCommentLikeTargetsComment(t *testing.T) {
	gw := &fakeGateway{liked: true}
	sess := authedSession()
	s := NewStore(gw, sess)

	msg := s.ToggleCommentLike(10, 33)().(LikeToggledMsg)

	if len(gw.likeArgs) != 1 || gw.likeArgs[0] != [2]int{0, 33} {
		t.Errorf("Expected toggle_like(0, 33), got %v", gw.likeArgs)
	}
	if msg.CommentID != 33 || msg.PostID != 10 {
		t.Errorf("Expected msg scoped to post 10 comment 33, got %+v", msg)
	}
}

func TestApplyLikeOnComment(t *testing.T) {
	sess := authedSession()
	s := NewStore(&fakeGateway{}, sess)
	epoch := sess.Epoch()
	s.ApplyComments(CommentsLoadedMsg{
		PostID: 10,
		Epoch:  epoch,
		Comments: []domain.Comment{
			{ID: 33, LikesCount: 1, IsLiked: 0},
		},
	})

	s.ApplyLike(LikeToggledMsg{PostID: 10, CommentID: 33, Liked: true, Epoch: epoch})
	if c := s.Comments(10)[0]; c.IsLiked != 1 || c.LikesCount != 2 {
		t.Errorf("Expected comment liked with 2 likes, got %+v", c)
	}

	s.ApplyLike(LikeToggledMsg{PostID: 10, CommentID: 33, Liked: false, Epoch: epoch})
	if c := s.Comments(10)[0]; c.IsLiked != 0 || c.LikesCount != 1 {
		t.Errorf("Expected comment unliked with 1 like, got %+v", c)
	}
}

func TestApplyRepost(t *testing.T) {
	sess := authedSession()
	s := trackedStore(&fakeGateway{}, sess)
	epoch := sess.Epoch()

	// Baseline is reposted; server says not reposted (an unshare).
	s.ApplyRepost(RepostToggledMsg{PostID: 10, Reposted: false, Epoch: epoch})
	if st := s.Post(10); st.Reposted || st.Reposts != 0 {
		t.Errorf("Expected unreposted with 0 reposts, got %+v", st)
	}

	s.ApplyRepost(RepostToggledMsg{PostID: 10, Reposted: true, Epoch: epoch})
	if st := s.Post(10); !st.Reposted || st.Reposts != 1 {
		t.Errorf("Expected reposted with 1 repost, got %+v", st)
	}
}

func TestToggleCommentsFetchesOnce(t *testing.T) {
	gw := &fakeGateway{comments: []domain.Comment{{ID: 1}}}
	sess := authedSession()
	s := NewStore(gw, sess)

	cmd := s.ToggleComments(10)
	if cmd == nil {
		t.Fatal("Expected a fetch on first expand")
	}
	if !s.Expanded(10) {
		t.Error("Expected post 10 to be expanded")
	}
	s.ApplyComments(cmd().(CommentsLoadedMsg))

	// Collapse keeps the cache.
	if cmd := s.ToggleComments(10); cmd != nil {
		t.Error("Expected collapse to be purely local")
	}
	if s.Expanded(10) {
		t.Error("Expected post 10 to be collapsed")
	}
	if len(s.Comments(10)) != 1 {
		t.Error("Expected the cached thread to survive collapse")
	}

	// Second expand reuses the cache.
	if cmd := s.ToggleComments(10); cmd != nil {
		t.Error("Expected re-expand to reuse the cache without refetching")
	}
	if gw.getCalls != 1 {
		t.Errorf("Expected exactly one get_comments, got %d", gw.getCalls)
	}
}

func TestAddCommentSubmitsThenRefetches(t *testing.T) {
	gw := &fakeGateway{comments: []domain.Comment{{ID: 1, Content: "hi"}}}
	sess := authedSession()
	s := NewStore(gw, sess)

	cmd := s.AddComment(10, "  hi  ", 0)
	if cmd == nil {
		t.Fatal("Expected a cmd for non-empty content")
	}
	msg := cmd().(CommentsLoadedMsg)

	if gw.addedContent != "hi" {
		t.Errorf("Expected trimmed content, got %q", gw.addedContent)
	}
	if gw.getCalls != 1 {
		t.Errorf("Expected a refetch after submit, got %d fetches", gw.getCalls)
	}
	if len(msg.Comments) != 1 {
		t.Errorf("Expected the refetched thread in the msg, got %d entries", len(msg.Comments))
	}
}

func TestAddCommentNoops(t *testing.T) {
	s := NewStore(&fakeGateway{}, authedSession())
	if cmd := s.AddComment(10, "   ", 0); cmd != nil {
		t.Error("Expected whitespace-only content to be a no-op")
	}

	s = NewStore(&fakeGateway{}, session.New())
	if cmd := s.AddComment(10, "hello", 0); cmd != nil {
		t.Error("Expected unauthenticated add to be a no-op")
	}
}

func TestResetDropsEverything(t *testing.T) {
	sess := authedSession()
	s := trackedStore(&fakeGateway{}, sess)
	s.ToggleComments(10)

	s.Reset()

	if st := s.Post(10); st != (PostState{}) {
		t.Errorf("Expected zero state after reset, got %+v", st)
	}
	if s.Expanded(10) {
		t.Error("Expected expansion state to be dropped")
	}
}
