// Package follows drives the follow relationship state machine. A public
// target moves None -> Following directly; a private target goes through
// Pending and needs the target's approval. One toggle action serves follow,
// unfollow and cancel-request, the server deciding which transition applies.
package follows

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"online/domain"
	"online/session"
)

// State of the viewer's relationship with a target user.
type State int

const (
	None State = iota
	Pending
	Following
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Following:
		return "following"
	default:
		return "none"
	}
}

// StateOf maps the server's toggle/profile response flags onto a State.
func StateOf(following, pending bool) State {
	switch {
	case following:
		return Following
	case pending:
		return Pending
	default:
		return None
	}
}

// Actions accepted by respond_follow.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Gateway is the slice of the backend this package consumes.
type Gateway interface {
	ToggleFollow(userID int) (following, pending bool, err error)
	RespondFollow(followID int, action string) error
	FollowList(userID int, typ string) ([]domain.FollowUser, error)
}

type Resolver struct {
	gw   Gateway
	sess *session.Session
}

func NewResolver(gw Gateway, sess *session.Session) *Resolver {
	return &Resolver{gw: gw, sess: sess}
}

// ToggledMsg reports the authoritative state after a follow toggle.
type ToggledMsg struct {
	UserID int
	State  State
	Epoch  uuid.UUID
	Err    error
}

// Toggle flips the relationship with targetID. The new state comes from the
// server; nothing is flipped locally before the response. No-op when
// unauthenticated.
func (r *Resolver) Toggle(targetID int) tea.Cmd {
	if !r.sess.Authenticated() {
		return nil
	}
	epoch := r.sess.Epoch()
	return func() tea.Msg {
		following, pending, err := r.gw.ToggleFollow(targetID)
		if err != nil {
			log.Printf("toggle_follow %d failed: %v", targetID, err)
			return ToggledMsg{UserID: targetID, Epoch: epoch, Err: err}
		}
		return ToggledMsg{UserID: targetID, State: StateOf(following, pending), Epoch: epoch}
	}
}

// RespondedMsg reports the outcome of accepting or rejecting one pending
// request.
type RespondedMsg struct {
	FollowID int
	Action   string
	Epoch    uuid.UUID
	Err      error
}

// Respond resolves a pending request by its follow_id, as listed by the
// pending ledger. Valid only for requests targeting the viewer.
func (r *Resolver) Respond(followID int, action string) tea.Cmd {
	if !r.sess.Authenticated() {
		return nil
	}
	epoch := r.sess.Epoch()
	return func() tea.Msg {
		err := r.gw.RespondFollow(followID, action)
		if err != nil {
			log.Printf("respond_follow %d failed: %v", followID, err)
		}
		return RespondedMsg{FollowID: followID, Action: action, Epoch: epoch, Err: err}
	}
}

// ResolvedMsg reports a notification-driven resolution. Matched is false when
// the pending ledger had no entry for the username, in which case no respond
// call was made.
type ResolvedMsg struct {
	NotifID  int
	FollowID int
	Action   string
	Matched  bool
	Epoch    uuid.UUID
	Err      error
}

// ResolveByUsername resolves a follow_request notification. The notification
// feed is display-only: it names the requester but does not carry the request
// id, so the pending ledger is re-queried first and the username matched
// against it to obtain the authoritative follow_id. Without this lookup a
// locally invented id could resolve the wrong request. No matching pending
// entry means no backend respond call at all.
func (r *Resolver) ResolveByUsername(notifID int, username, action string) tea.Cmd {
	if !r.sess.Authenticated() {
		return nil
	}
	epoch := r.sess.Epoch()
	return func() tea.Msg {
		pending, err := r.gw.FollowList(0, "pending")
		if err != nil {
			log.Printf("pending follow_list failed: %v", err)
			return ResolvedMsg{NotifID: notifID, Action: action, Epoch: epoch, Err: err}
		}
		for _, u := range pending {
			if u.Username == username {
				err := r.gw.RespondFollow(u.FollowID, action)
				if err != nil {
					log.Printf("respond_follow %d failed: %v", u.FollowID, err)
				}
				return ResolvedMsg{
					NotifID:  notifID,
					FollowID: u.FollowID,
					Action:   action,
					Matched:  true,
					Epoch:    epoch,
					Err:      err,
				}
			}
		}
		return ResolvedMsg{NotifID: notifID, Action: action, Epoch: epoch}
	}
}

// ListMsg delivers a follow_list fetch (followers/following/friends/pending).
type ListMsg struct {
	UserID int
	Type   string
	Users  []domain.FollowUser
	Epoch  uuid.UUID
	Err    error
}

// List fetches one of the follow lists for userID (zero means the viewer).
func (r *Resolver) List(userID int, typ string) tea.Cmd {
	if !r.sess.Authenticated() {
		return nil
	}
	epoch := r.sess.Epoch()
	return func() tea.Msg {
		users, err := r.gw.FollowList(userID, typ)
		if err != nil {
			log.Printf("follow_list %s failed: %v", typ, err)
		}
		return ListMsg{UserID: userID, Type: typ, Users: users, Epoch: epoch, Err: err}
	}
}

// Accept reports whether a message's epoch still belongs to the current
// identity.
func (r *Resolver) Accept(epoch uuid.UUID) bool {
	return r.sess.Valid(epoch)
}
