package domain

// ChatUser is the peer half of a chat pairing.
type ChatUser struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

func (u *ChatUser) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// LastMessage is the summary line shown in the chat list.
type LastMessage struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	SenderID  int    `json:"sender_id"`
}

// Chat is a derived pairing of the viewer and a peer. It is not a stored
// entity; the backend recomputes it from message rows on every get_chats.
type Chat struct {
	User        ChatUser    `json:"user"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// Message is a direct message row. ReplyToID references another message, one
// level only. EditedAt is nil until the first edit. Hidden messages are
// excluded server-side from future fetches.
type Message struct {
	ID             int     `json:"id"`
	SenderID       int     `json:"sender_id"`
	ReceiverID     int     `json:"receiver_id"`
	Content        string  `json:"content"`
	IsRead         bool    `json:"is_read"`
	ReplyToID      *int    `json:"reply_to_id"`
	IsPinned       bool    `json:"is_pinned"`
	EditedAt       *string `json:"edited_at"`
	CreatedAt      string  `json:"created_at"`
	SenderUsername string  `json:"sender_username"`
	SenderName     string  `json:"sender_name"`
	SenderAvatar   string  `json:"sender_avatar"`
}

// Kinds accepted by the message_action dispatch.
const (
	MessageActionPin   = "pin"
	MessageActionEdit  = "edit"
	MessageActionHide  = "hide"
	MessageActionClear = "clear_chat"
)
