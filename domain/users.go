package domain

// User is the authenticated viewer as returned by the login/register/me
// actions. All fields are server-owned; the client never mutates them locally
// except by refetching after update_profile.
type User struct {
	ID              int               `json:"id"`
	Username        string            `json:"username"`
	Email           string            `json:"email"`
	DisplayName     string            `json:"display_name"`
	AvatarURL       string            `json:"avatar_url"`
	Bio             string            `json:"bio"`
	IsPrivate       bool              `json:"is_private"`
	IsAdmin         bool              `json:"is_admin"`
	IsVerified      bool              `json:"is_verified"`
	Links           map[string]string `json:"links"`
	PrivacySettings map[string]string `json:"privacy_settings"`
	Theme           string            `json:"theme"`
	MessagesEnabled bool              `json:"messages_enabled"`
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Profile is another user's page: identity plus viewer-scoped relationship
// flags and that user's posts.
type Profile struct {
	ID              int               `json:"id"`
	Username        string            `json:"username"`
	DisplayName     string            `json:"display_name"`
	Bio             string            `json:"bio"`
	AvatarURL       string            `json:"avatar_url"`
	IsPrivate       bool              `json:"is_private"`
	IsVerified      bool              `json:"is_verified"`
	IsAdmin         bool              `json:"is_admin"`
	Links           map[string]string `json:"links"`
	PrivacySettings map[string]string `json:"privacy_settings"`
	CreatedAt       string            `json:"created_at"`
	FollowersCount  int               `json:"followers_count"`
	FollowingCount  int               `json:"following_count"`
	PostsCount      int               `json:"posts_count"`
	IsFollowing     bool              `json:"is_following"`
	IsPending       bool              `json:"is_pending"`
	IsOwn           bool              `json:"is_own"`
	Posts           []Post            `json:"posts"`
}

func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

// FollowUser is an entry of a follow_list response. FollowID is only set for
// type=pending and identifies the follow row itself, not the user.
type FollowUser struct {
	FollowID    int    `json:"follow_id"`
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

func (u *FollowUser) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
