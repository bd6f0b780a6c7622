package domain

// Notification types the backend emits.
const (
	NotifLike           = "like"
	NotifComment        = "comment"
	NotifFollow         = "follow"
	NotifFollowRequest  = "follow_request"
	NotifFollowAccepted = "follow_accepted"
	NotifMessage        = "message"
	NotifRepost         = "repost"
)

// Notification is a typed event referencing an actor and optionally a post.
// It transitions to read in bulk when the notification surface is opened.
type Notification struct {
	ID              int    `json:"id"`
	Type            string `json:"type"`
	Content         string `json:"content"`
	IsRead          bool   `json:"is_read"`
	CreatedAt       string `json:"created_at"`
	FromUsername    string `json:"from_username"`
	FromDisplayName string `json:"from_display_name"`
	FromAvatar      string `json:"from_avatar"`
	PostID          *int   `json:"post_id"`
}

func (n *Notification) ActorName() string {
	if n.FromDisplayName != "" {
		return n.FromDisplayName
	}
	return n.FromUsername
}
