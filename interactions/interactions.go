// Package interactions holds the viewer-scoped toggle state of posts (liked,
// reposted, counters) and the per-thread comment cache. Toggles are not
// optimistic: the displayed state changes only after the server confirms
// which direction the toggle went, so a failed call leaves the prior state
// untouched and nothing needs rolling back.
//
// Commands returned here do only network I/O; state changes happen in the
// Apply methods, which must be called from the program's Update loop.
package interactions

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"online/domain"
	"online/session"
)

// Gateway is the slice of the backend this package consumes.
type Gateway interface {
	ToggleLike(postID, commentID int) (bool, error)
	ToggleRepost(postID int) (bool, error)
	GetComments(postID int) ([]domain.Comment, error)
	AddComment(postID int, content string, parentID int) error
}

// PostState is the displayed interaction state of one post.
type PostState struct {
	Liked    bool
	Likes    int
	Reposted bool
	Reposts  int
	Comments int
}

type Store struct {
	gw   Gateway
	sess *session.Session

	posts    map[int]PostState
	comments map[int][]domain.Comment
	expanded map[int]bool
}

func NewStore(gw Gateway, sess *session.Session) *Store {
	return &Store{
		gw:       gw,
		sess:     sess,
		posts:    make(map[int]PostState),
		comments: make(map[int][]domain.Comment),
		expanded: make(map[int]bool),
	}
}

// Track seeds (or reseeds) a post's state from its server baseline. Called
// for every post of every feed/profile reconciliation; the server response is
// authoritative and overwrites whatever was displayed.
func (s *Store) Track(p domain.Post) {
	s.posts[p.ID] = PostState{
		Liked:    p.IsLiked > 0,
		Likes:    p.LikesCount,
		Reposted: p.IsReposted > 0,
		Reposts:  p.RepostsCount,
		Comments: p.CommentsCount,
	}
}

// Post returns the displayed state for a post id.
func (s *Store) Post(id int) PostState {
	return s.posts[id]
}

// Reset drops all cached state (logout, identity change).
func (s *Store) Reset() {
	s.posts = make(map[int]PostState)
	s.comments = make(map[int][]domain.Comment)
	s.expanded = make(map[int]bool)
}

// LikeToggledMsg reports the server-confirmed direction of a like toggle.
type LikeToggledMsg struct {
	PostID    int
	CommentID int
	Liked     bool
	Epoch     uuid.UUID
	Err       error
}

// ToggleLike toggles the viewer's like on a post. Unauthenticated calls are
// no-ops; the command does not touch local state before the response.
func (s *Store) ToggleLike(postID int) tea.Cmd {
	if !s.sess.Authenticated() {
		return nil
	}
	epoch := s.sess.Epoch()
	return func() tea.Msg {
		liked, err := s.gw.ToggleLike(postID, 0)
		if err != nil {
			log.Printf("toggle_like post %d failed: %v", postID, err)
		}
		return LikeToggledMsg{PostID: postID, Liked: liked, Epoch: epoch, Err: err}
	}
}

// ToggleCommentLike toggles the viewer's like on a comment.
func (s *Store) ToggleCommentLike(postID, commentID int) tea.Cmd {
	if !s.sess.Authenticated() {
		return nil
	}
	epoch := s.sess.Epoch()
	return func() tea.Msg {
		liked, err := s.gw.ToggleLike(0, commentID)
		if err != nil {
			log.Printf("toggle_like comment %d failed: %v", commentID, err)
		}
		return LikeToggledMsg{PostID: postID, CommentID: commentID, Liked: liked, Epoch: epoch, Err: err}
	}
}

// ApplyLike flips the local boolean to the server's direction and moves the
// paired counter by exactly one, never below zero. Failed or stale results
// leave the displayed state unchanged.
func (s *Store) ApplyLike(msg LikeToggledMsg) {
	if msg.Err != nil || !s.sess.Valid(msg.Epoch) {
		return
	}

	if msg.CommentID != 0 {
		list := s.comments[msg.PostID]
		for i := range list {
			if list[i].ID == msg.CommentID {
				was := list[i].IsLiked > 0
				if msg.Liked && !was {
					list[i].IsLiked = 1
					list[i].LikesCount++
				} else if !msg.Liked && was {
					list[i].IsLiked = 0
					if list[i].LikesCount > 0 {
						list[i].LikesCount--
					}
				}
				break
			}
		}
		return
	}

	st := s.posts[msg.PostID]
	if msg.Liked && !st.Liked {
		st.Likes++
	} else if !msg.Liked && st.Liked && st.Likes > 0 {
		st.Likes--
	}
	st.Liked = msg.Liked
	s.posts[msg.PostID] = st
}

// RepostToggledMsg reports the server-confirmed direction of a repost toggle.
type RepostToggledMsg struct {
	PostID   int
	Reposted bool
	Epoch    uuid.UUID
	Err      error
}

func (s *Store) ToggleRepost(postID int) tea.Cmd {
	if !s.sess.Authenticated() {
		return nil
	}
	epoch := s.sess.Epoch()
	return func() tea.Msg {
		reposted, err := s.gw.ToggleRepost(postID)
		if err != nil {
			log.Printf("toggle_repost %d failed: %v", postID, err)
		}
		return RepostToggledMsg{PostID: postID, Reposted: reposted, Epoch: epoch, Err: err}
	}
}

func (s *Store) ApplyRepost(msg RepostToggledMsg) {
	if msg.Err != nil || !s.sess.Valid(msg.Epoch) {
		return
	}
	st := s.posts[msg.PostID]
	if msg.Reposted && !st.Reposted {
		st.Reposts++
	} else if !msg.Reposted && st.Reposted && st.Reposts > 0 {
		st.Reposts--
	}
	st.Reposted = msg.Reposted
	s.posts[msg.PostID] = st
}

// CommentsLoadedMsg delivers a fetched comment thread.
type CommentsLoadedMsg struct {
	PostID   int
	Comments []domain.Comment
	Epoch    uuid.UUID
	Err      error
}

// ToggleComments expands or collapses a post's thread. The thread is fetched
// only on the first expand; collapsing keeps the cache, so later expands are
// instant and reuse it.
func (s *Store) ToggleComments(postID int) tea.Cmd {
	if s.expanded[postID] {
		s.expanded[postID] = false
		return nil
	}
	s.expanded[postID] = true
	if _, cached := s.comments[postID]; cached {
		return nil
	}
	return s.fetchComments(postID)
}

func (s *Store) fetchComments(postID int) tea.Cmd {
	epoch := s.sess.Epoch()
	return func() tea.Msg {
		list, err := s.gw.GetComments(postID)
		if err != nil {
			log.Printf("get_comments %d failed: %v", postID, err)
		}
		return CommentsLoadedMsg{PostID: postID, Comments: list, Epoch: epoch, Err: err}
	}
}

func (s *Store) ApplyComments(msg CommentsLoadedMsg) {
	if msg.Err != nil || !s.sess.Valid(msg.Epoch) {
		return
	}
	s.comments[msg.PostID] = msg.Comments
}

// AddComment submits a comment (optionally replying to parentID, one level)
// and refetches the thread, so the cache always reflects what the server
// persisted. Empty content and unauthenticated calls are no-ops.
func (s *Store) AddComment(postID int, content string, parentID int) tea.Cmd {
	content = strings.TrimSpace(content)
	if content == "" || !s.sess.Authenticated() {
		return nil
	}
	epoch := s.sess.Epoch()
	return func() tea.Msg {
		if err := s.gw.AddComment(postID, content, parentID); err != nil {
			log.Printf("add_comment %d failed: %v", postID, err)
			return CommentsLoadedMsg{PostID: postID, Epoch: epoch, Err: err}
		}
		list, err := s.gw.GetComments(postID)
		if err != nil {
			log.Printf("get_comments %d failed: %v", postID, err)
		}
		return CommentsLoadedMsg{PostID: postID, Comments: list, Epoch: epoch, Err: err}
	}
}

// Expanded reports whether a post's thread is currently open.
func (s *Store) Expanded(postID int) bool {
	return s.expanded[postID]
}

// Comments returns the cached thread for a post.
func (s *Store) Comments(postID int) []domain.Comment {
	return s.comments[postID]
}
