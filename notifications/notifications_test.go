package notifications

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"online/domain"
	"online/session"
)

type fakeGateway struct {
	list      []domain.Notification
	listErr   error
	readErr   error
	readCalls int
}

func (f *fakeGateway) Notifications() ([]domain.Notification, error) {
	return f.list, f.listErr
}

func (f *fakeGateway) ReadNotifications() error {
	f.readCalls++
	return f.readErr
}

func authedSession() *session.Session {
	sess := session.New()
	sess.SetAuth("token", &domain.User{ID: 1, Username: "me"})
	return sess
}

func TestLoadUnauthenticatedIsNoop(t *testing.T) {
	agg := NewAggregator(&fakeGateway{}, session.New())
	if cmd := agg.Load(); cmd != nil {
		t.Error("Expected nil cmd when unauthenticated")
	}
}

// runLoad executes every command in the batch Load returns and hands back
// the list message.
func runLoad(t *testing.T, agg *Aggregator) LoadedMsg {
	t.Helper()
	batch, ok := agg.Load()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Expected Load to return a batch")
	}
	var loaded LoadedMsg
	found := false
	for _, cmd := range batch {
		if msg, ok := cmd().(LoadedMsg); ok {
			loaded = msg
			found = true
		}
	}
	if !found {
		t.Fatal("Expected a list message in the batch")
	}
	return loaded
}

func TestLoadMarksRead(t *testing.T) {
	gw := &fakeGateway{list: []domain.Notification{
		{ID: 1, Type: domain.NotifLike, IsRead: false},
		{ID: 2, Type: domain.NotifComment, IsRead: true},
	}}
	agg := NewAggregator(gw, authedSession())

	msg := runLoad(t, agg)

	if msg.Err != nil {
		t.Fatalf("Load failed: %v", msg.Err)
	}
	if len(msg.Notifications) != 2 {
		t.Errorf("Expected 2 notifications, got %d", len(msg.Notifications))
	}
	if gw.readCalls != 1 {
		t.Errorf("Expected read_notifications to be called once, got %d", gw.readCalls)
	}
}

func TestLoadListDoesNotWaitOnMarkRead(t *testing.T) {
	gw := &fakeGateway{list: []domain.Notification{{ID: 1, IsRead: false}}}
	agg := NewAggregator(gw, authedSession())

	batch, ok := agg.Load()().(tea.BatchMsg)
	if !ok {
		t.Fatal("Expected Load to return a batch")
	}
	for _, cmd := range batch {
		before := gw.readCalls
		if _, ok := cmd().(LoadedMsg); ok && gw.readCalls != before {
			t.Error("Expected the list fetch to leave mark-read to its own command")
		}
	}
	if gw.readCalls != 1 {
		t.Errorf("Expected exactly one mark-read call, got %d", gw.readCalls)
	}
}

func TestLoadMarkReadFailureIsSwallowed(t *testing.T) {
	gw := &fakeGateway{
		list:    []domain.Notification{{ID: 1, IsRead: false}},
		readErr: errors.New("boom"),
	}
	agg := NewAggregator(gw, authedSession())

	msg := runLoad(t, agg)

	if msg.Err != nil {
		t.Errorf("Expected mark-read failure to be swallowed, got %v", msg.Err)
	}
	if len(msg.Notifications) != 1 {
		t.Errorf("Expected the fetched list regardless, got %d entries", len(msg.Notifications))
	}
}

func TestLoadFetchFailure(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("down")}
	agg := NewAggregator(gw, authedSession())

	msg := runLoad(t, agg)

	if msg.Err == nil {
		t.Error("Expected an error from a failed fetch")
	}
}

func TestUnreadDoesNotMarkRead(t *testing.T) {
	gw := &fakeGateway{list: []domain.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: false},
		{ID: 3, IsRead: true},
	}}
	agg := NewAggregator(gw, authedSession())

	n, err := agg.Unread()
	if err != nil {
		t.Fatalf("Unread failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 unread, got %d", n)
	}
	if gw.readCalls != 0 {
		t.Error("Expected the badge poll to leave read state untouched")
	}
}

func TestAcceptRejectsStaleEpoch(t *testing.T) {
	sess := authedSession()
	agg := NewAggregator(&fakeGateway{}, sess)

	msg := LoadedMsg{Epoch: sess.Epoch()}
	if !agg.Accept(msg) {
		t.Error("Expected a current-epoch result to be accepted")
	}

	sess.Logout()
	if agg.Accept(msg) {
		t.Error("Expected a pre-logout result to be discarded")
	}
}

func TestUnreadCount(t *testing.T) {
	if n := UnreadCount(nil); n != 0 {
		t.Errorf("Expected 0 for empty list, got %d", n)
	}
	list := []domain.Notification{
		{IsRead: true}, {IsRead: false}, {IsRead: true},
	}
	if n := UnreadCount(list); n != 1 {
		t.Errorf("Expected 1 unread, got %d", n)
	}
}

func TestTypeFallbacks(t *testing.T) {
	if TypeIcon("weird") != "•" {
		t.Errorf("Expected fallback icon, got %s", TypeIcon("weird"))
	}
	if TypeLabel("weird") != "weird" {
		t.Errorf("Expected raw type as fallback label, got %s", TypeLabel("weird"))
	}
	if TypeIcon(domain.NotifLike) != "♥" {
		t.Errorf("Expected like icon, got %s", TypeIcon(domain.NotifLike))
	}
}
