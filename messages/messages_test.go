package messages

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"online/domain"
	"online/poller"
	"online/session"
)

type fakeGateway struct {
	chats    []domain.Chat
	chatsErr error

	msgs    map[int][]domain.Message
	msgsErr error

	sentTo      int
	sentContent string
	sentReplyTo int
	sendErr     error

	actionKind    string
	actionMsgID   int
	actionContent string
	actionUserID  int
	actionCalls   int
	actionErr     error
}

func (f *fakeGateway) GetChats() ([]domain.Chat, error) {
	return f.chats, f.chatsErr
}

func (f *fakeGateway) GetMessages(userID int) ([]domain.Message, error) {
	return f.msgs[userID], f.msgsErr
}

func (f *fakeGateway) SendMessage(receiverID int, content string, replyToID int) error {
	f.sentTo = receiverID
	f.sentContent = content
	f.sentReplyTo = replyToID
	return f.sendErr
}

func (f *fakeGateway) MessageAction(action string, messageID int, content string, userID int) error {
	f.actionCalls++
	f.actionKind = action
	f.actionMsgID = messageID
	f.actionContent = content
	f.actionUserID = userID
	return f.actionErr
}

func authedSession() *session.Session {
	sess := session.New()
	sess.SetAuth("token", &domain.User{ID: 1, Username: "me"})
	return sess
}

func chatWith(peerID int) domain.Chat {
	return domain.Chat{User: domain.ChatUser{ID: peerID, Username: "peer"}}
}

// runFetch executes the immediate fetch of a Select batch and returns the
// FetchedMsg, skipping the scheduled tick.
func runFetch(t *testing.T, cmd tea.Cmd) FetchedMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("Expected Select to return a fetch + schedule batch")
	}
	for _, c := range batch {
		if fm, ok := c().(FetchedMsg); ok {
			return fm
		}
	}
	t.Fatal("Expected a FetchedMsg in the batch")
	return FetchedMsg{}
}

func newManager(gw *fakeGateway) *Manager {
	return NewManager(gw, authedSession(), time.Millisecond)
}

func TestSelectFetchesConversation(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{
		7: {{ID: 1, Content: "hi"}, {ID: 2, Content: "yo"}},
	}}
	m := newManager(gw)

	fm := runFetch(t, m.Select(chatWith(7)))

	if fm.ChatID != 7 {
		t.Errorf("Expected fetch for chat 7, got %d", fm.ChatID)
	}
	if !m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err) {
		t.Fatal("Expected a fresh fetch to apply")
	}
	if len(m.Messages()) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(m.Messages()))
	}
}

func TestStaleScopeDiscarded(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{
		7: {{ID: 1, Content: "from A"}},
		9: {{ID: 2, Content: "from B"}},
	}}
	m := newManager(gw)

	// Fetch for chat A resolves only after chat B is selected.
	fmA := runFetch(t, m.Select(chatWith(7)))
	fmB := runFetch(t, m.Select(chatWith(9)))

	if m.Apply(fmA.ChatID, fmA.Epoch, fmA.Messages, fmA.Err) {
		t.Error("Expected the superseded chat's fetch to be discarded")
	}
	if !m.Apply(fmB.ChatID, fmB.Epoch, fmB.Messages, fmB.Err) {
		t.Fatal("Expected the active chat's fetch to apply")
	}
	if m.Messages()[0].Content != "from B" {
		t.Errorf("Expected chat B's messages, got %q", m.Messages()[0].Content)
	}
}

func TestReselectSameChatInvalidatesOldFetch(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {{ID: 1}}}}
	m := newManager(gw)

	fmOld := runFetch(t, m.Select(chatWith(7)))
	m.Select(chatWith(7))

	if m.Apply(fmOld.ChatID, fmOld.Epoch, fmOld.Messages, fmOld.Err) {
		t.Error("Expected the previous selection's fetch to be discarded")
	}
}

func TestDeselectStopsPolling(t *testing.T) {
	gw := &fakeGateway{}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))

	m.Deselect()

	if m.Active() != nil {
		t.Error("Expected no active chat after Deselect")
	}
	if m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err) {
		t.Error("Expected an in-flight fetch to die after Deselect")
	}
	if cmd := m.Tick(poller.TickMsg{Name: "chat", Epoch: fm.Epoch}); cmd != nil {
		t.Error("Expected ticks to die after Deselect")
	}
}

func TestSendRefetchesInsteadOfAppending(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {{ID: 1}, {ID: 2}}}}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))
	m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err)

	cmd := m.Send("  hello  ")
	if cmd == nil {
		t.Fatal("Expected a cmd for a non-empty send")
	}
	sent := cmd().(SentMsg)

	if gw.sentTo != 7 || gw.sentContent != "hello" {
		t.Errorf("Expected trimmed send to peer 7, got (%d, %q)", gw.sentTo, gw.sentContent)
	}
	if !m.ApplySent(sent) {
		t.Fatal("Expected the post-send refetch to apply")
	}
	if len(m.Messages()) != 2 {
		t.Errorf("Expected the server list verbatim, got %d messages", len(m.Messages()))
	}
}

func TestSendNoops(t *testing.T) {
	m := newManager(&fakeGateway{})
	if cmd := m.Send("hello"); cmd != nil {
		t.Error("Expected send without an active chat to be a no-op")
	}

	m.Select(chatWith(7))
	if cmd := m.Send("   "); cmd != nil {
		t.Error("Expected whitespace-only send to be a no-op")
	}
}

func TestReplyIsLocalAndClearsOnSend(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {{ID: 5, Content: "orig"}}}}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))
	m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err)

	target := m.MessageByID(5)
	if cmd := m.Action(ActionReply, target, ""); cmd != nil {
		t.Error("Expected reply to be purely local")
	}
	if gw.actionCalls != 0 {
		t.Error("Expected no backend call for reply")
	}
	if dr := m.DraftReply(); dr == nil || dr.ID != 5 {
		t.Fatal("Expected message 5 as the draft reply target")
	}

	sent := m.Send("answer")().(SentMsg)
	if gw.sentReplyTo != 5 {
		t.Errorf("Expected reply_to_id 5, got %d", gw.sentReplyTo)
	}
	m.ApplySent(sent)
	if m.DraftReply() != nil {
		t.Error("Expected the draft reply to clear after a successful send")
	}
}

func TestFailedSendKeepsDraft(t *testing.T) {
	gw := &fakeGateway{
		msgs:    map[int][]domain.Message{7: {{ID: 5}}},
		sendErr: errors.New("down"),
	}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))
	m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err)
	m.Action(ActionReply, m.MessageByID(5), "")

	sent := m.Send("answer")().(SentMsg)

	if m.ApplySent(sent) {
		t.Error("Expected a failed send not to apply")
	}
	if m.DraftReply() == nil {
		t.Error("Expected the draft reply to survive a failed send")
	}
}

func TestPinRoundTrip(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {{ID: 5}}}}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))
	m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err)

	done := m.Action(domain.MessageActionPin, m.MessageByID(5), "")().(ActionDoneMsg)

	if gw.actionKind != domain.MessageActionPin || gw.actionMsgID != 5 {
		t.Errorf("Expected pin on message 5, got %s on %d", gw.actionKind, gw.actionMsgID)
	}
	if done.Kind != domain.MessageActionPin {
		t.Errorf("Expected pin in the done msg, got %s", done.Kind)
	}
}

func TestEditRequiresContent(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {{ID: 5}}}}
	m := newManager(gw)
	fm := runFetch(t, m.Select(chatWith(7)))
	m.Apply(fm.ChatID, fm.Epoch, fm.Messages, fm.Err)

	if cmd := m.Action(domain.MessageActionEdit, m.MessageByID(5), "   "); cmd != nil {
		t.Error("Expected edit without content to be a no-op")
	}
	if gw.actionCalls != 0 {
		t.Error("Expected no backend call for an empty edit")
	}

	m.Action(domain.MessageActionEdit, m.MessageByID(5), "fixed")()
	if gw.actionContent != "fixed" {
		t.Errorf("Expected edited content, got %q", gw.actionContent)
	}
}

func TestClearTargetsPeer(t *testing.T) {
	gw := &fakeGateway{msgs: map[int][]domain.Message{7: {}}}
	m := newManager(gw)
	m.Select(chatWith(7))

	m.Action(domain.MessageActionClear, nil, "")()

	if gw.actionKind != domain.MessageActionClear || gw.actionUserID != 7 {
		t.Errorf("Expected clear_chat for peer 7, got %s for %d", gw.actionKind, gw.actionUserID)
	}
	if gw.actionMsgID != 0 {
		t.Errorf("Expected no message id for clear_chat, got %d", gw.actionMsgID)
	}
}
