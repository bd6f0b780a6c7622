// Package notifications loads the notification feed and derives the unread
// badge count. Two independent surfaces poll this same quantity (the
// notification page on open, the nav badge every 30s); they may transiently
// disagree within one polling interval, which is accepted.
package notifications

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"online/domain"
	"online/session"
)

// Gateway is the slice of the backend this package consumes.
type Gateway interface {
	Notifications() ([]domain.Notification, error)
	ReadNotifications() error
}

type Aggregator struct {
	gw   Gateway
	sess *session.Session
}

func NewAggregator(gw Gateway, sess *session.Session) *Aggregator {
	return &Aggregator{gw: gw, sess: sess}
}

// LoadedMsg delivers a fetched notification list. Epoch is the auth epoch the
// fetch was issued under.
type LoadedMsg struct {
	Notifications []domain.Notification
	Epoch         uuid.UUID
	Err           error
}

// Load fetches the list and fires mark-all-read alongside it. The mark-read
// call is fire and forget: the displayed list never waits on it and its
// failure never affects the fetched list, the unread state simply survives
// until the next successful open. Unauthenticated, Load is a no-op.
func (a *Aggregator) Load() tea.Cmd {
	if !a.sess.Authenticated() {
		return nil
	}
	epoch := a.sess.Epoch()
	fetch := func() tea.Msg {
		list, err := a.gw.Notifications()
		if err != nil {
			return LoadedMsg{Epoch: epoch, Err: err}
		}
		return LoadedMsg{Notifications: list, Epoch: epoch}
	}
	markRead := func() tea.Msg {
		if err := a.gw.ReadNotifications(); err != nil {
			log.Printf("read_notifications failed: %v", err)
		}
		return nil
	}
	return tea.Batch(fetch, markRead)
}

// Unread fetches the list and reduces it to the unread count, without
// marking anything read. The nav badge polls with this.
func (a *Aggregator) Unread() (int, error) {
	list, err := a.gw.Notifications()
	if err != nil {
		return 0, err
	}
	return UnreadCount(list), nil
}

// Accept reports whether msg may be applied under the current identity.
func (a *Aggregator) Accept(msg LoadedMsg) bool {
	return msg.Err == nil && a.sess.Valid(msg.Epoch)
}

// UnreadCount counts notifications not yet read. Pure.
func UnreadCount(list []domain.Notification) int {
	n := 0
	for _, notif := range list {
		if !notif.IsRead {
			n++
		}
	}
	return n
}

// Display semantics per notification type.
var typeIcons = map[string]string{
	domain.NotifLike:           "♥",
	domain.NotifComment:        "✎",
	domain.NotifFollow:         "+",
	domain.NotifFollowRequest:  "?",
	domain.NotifFollowAccepted: "✓",
	domain.NotifMessage:        "✉",
	domain.NotifRepost:         "⇄",
}

var typeLabels = map[string]string{
	domain.NotifLike:           "liked your post",
	domain.NotifComment:        "commented on your post",
	domain.NotifFollow:         "followed you",
	domain.NotifFollowRequest:  "wants to follow you",
	domain.NotifFollowAccepted: "accepted your request",
	domain.NotifMessage:        "sent you a message",
	domain.NotifRepost:         "reposted your post",
}

// TypeIcon returns the glyph for a notification type, falling back to a bell.
func TypeIcon(typ string) string {
	if icon, ok := typeIcons[typ]; ok {
		return icon
	}
	return "•"
}

// TypeLabel returns the display phrase for a notification type, falling back
// to the raw type name.
func TypeLabel(typ string) string {
	if label, ok := typeLabels[typ]; ok {
		return label
	}
	return typ
}
