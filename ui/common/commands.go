package common

import "online/domain"

type SessionState uint

const (
	AuthView SessionState = iota
	FeedView
	SearchView
	ChatsView
	NotifsView
	ProfileView
	SettingsView
	AdminView
)

// AuthSuccessMsg is emitted by the login view after a successful login,
// registration or session restore.
type AuthSuccessMsg struct {
	Token string
	User  *domain.User
}

// LoggedOutMsg tells every view to drop user-scoped state.
type LoggedOutMsg struct{}

// ReportReason is the fixed reason sent with every report action.
const ReportReason = "inappropriate content"

// OpenProfileMsg routes to the profile view for a username (empty means the
// viewer's own profile).
type OpenProfileMsg struct {
	Username string
}
