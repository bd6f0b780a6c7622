package domain

// Report as listed by admin_reports. Exactly one of the reported references
// is usually set, but the backend does not enforce that.
type Report struct {
	ID               int    `json:"id"`
	ReporterID       int    `json:"reporter_id"`
	ReportedUserID   *int   `json:"reported_user_id"`
	ReportedPostID   *int   `json:"reported_post_id"`
	Reason           string `json:"reason"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	ReporterUsername string `json:"reporter_username"`
	ReportedUsername string `json:"reported_username"`
}

// VerificationRequest is a user's pending request for verified status.
type VerificationRequest struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Username  string `json:"username"`
}

// Admin moderation actions accepted by admin_action.
const (
	AdminBlockUser     = "block_user"
	AdminUnblockUser   = "unblock_user"
	AdminRemovePost    = "remove_post"
	AdminResolveReport = "resolve_report"
)
