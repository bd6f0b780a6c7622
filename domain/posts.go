package domain

// Post as served by the feed/get_post/profile actions. The is_liked and
// is_reposted fields arrive as relationship-row counts scoped to the
// requesting viewer (0 or 1), not as booleans.
type Post struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id"`
	Content       string `json:"content"`
	ImageURL      string `json:"image_url"`
	CreatedAt     string `json:"created_at"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
	IsVerified    bool   `json:"is_verified"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	RepostsCount  int    `json:"reposts_count"`
	IsLiked       int    `json:"is_liked"`
	IsReposted    int    `json:"is_reposted"`
}

func (p *Post) AuthorName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

// Comment belongs to a post. ParentID forms one level of reply nesting and is
// never deeper; like state is viewer-scoped like on posts.
type Comment struct {
	ID            int    `json:"id"`
	PostID        int    `json:"post_id"`
	UserID        int    `json:"user_id"`
	ParentID      *int   `json:"parent_id"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
	IsVerified    bool   `json:"is_verified"`
	LikesCount    int    `json:"likes_count"`
	IsLiked       int    `json:"is_liked"`
	LikedByAuthor bool   `json:"liked_by_author"`
}

func (c *Comment) AuthorName() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Username
}

// Story is an ephemeral image post. Expired stories are filtered by the
// backend; the client never checks expires_at itself.
type Story struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	ImageURL    string `json:"image_url"`
	Visibility  string `json:"visibility"`
	CreatedAt   string `json:"created_at"`
	ExpiresAt   string `json:"expires_at"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

func (s *Story) AuthorName() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

// Story visibility values accepted by create_story.
const (
	StoryVisibilityAll       = "all"
	StoryVisibilityFollowers = "followers"
	StoryVisibilityMutual    = "mutual"
)
