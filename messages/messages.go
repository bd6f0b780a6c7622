// Package messages maintains the active conversation: the selected chat, its
// message list, the draft reply target, and the 5-second polling loop scoped
// to that chat. Selecting another chat cancels the previous loop, so at most
// one loop runs at a time; an in-flight fetch for a deselected chat resolves
// against a dead epoch and is discarded instead of overwriting the fresh
// chat's messages.
//
// The message list is kept exactly as the server returns it, in ascending
// created_at order; the client never re-sorts or appends synthetic entries.
package messages

import (
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"online/domain"
	"online/poller"
	"online/session"
)

// Gateway is the slice of the backend this package consumes.
type Gateway interface {
	GetChats() ([]domain.Chat, error)
	GetMessages(userID int) ([]domain.Message, error)
	SendMessage(receiverID int, content string, replyToID int) error
	MessageAction(action string, messageID int, content string, userID int) error
}

// Local-only action kinds, next to the wire kinds in domain.
const (
	ActionReply = "reply"
	ActionCopy  = "copy"
)

type Manager struct {
	gw   Gateway
	sess *session.Session
	poll *poller.Poller

	active     *domain.Chat
	msgs       []domain.Message
	draftReply *domain.Message
}

func NewManager(gw Gateway, sess *session.Session, pollInterval time.Duration) *Manager {
	return &Manager{
		gw:   gw,
		sess: sess,
		poll: poller.New("chat", pollInterval),
	}
}

// ChatsLoadedMsg delivers the chat list.
type ChatsLoadedMsg struct {
	Chats []domain.Chat
	Epoch uuid.UUID
	Err   error
}

func (m *Manager) LoadChats() tea.Cmd {
	if !m.sess.Authenticated() {
		return nil
	}
	epoch := m.sess.Epoch()
	return func() tea.Msg {
		chats, err := m.gw.GetChats()
		if err != nil {
			log.Printf("get_chats failed: %v", err)
		}
		return ChatsLoadedMsg{Chats: chats, Epoch: epoch, Err: err}
	}
}

// AcceptChats reports whether a chat list result is still applicable.
func (m *Manager) AcceptChats(msg ChatsLoadedMsg) bool {
	return msg.Err == nil && m.sess.Valid(msg.Epoch)
}

// FetchedMsg delivers a conversation fetch. ChatID and Epoch scope it to one
// chat selection; a result from a superseded selection must not be applied.
type FetchedMsg struct {
	ChatID   int
	Epoch    uuid.UUID
	Messages []domain.Message
	Err      error
}

// SentMsg reports a send followed by its refetch.
type SentMsg struct {
	ChatID   int
	Epoch    uuid.UUID
	Messages []domain.Message
	Err      error
}

// ActionDoneMsg reports a pin/edit/hide/clear round trip and its refetch.
type ActionDoneMsg struct {
	ChatID   int
	Kind     string
	Epoch    uuid.UUID
	Messages []domain.Message
	Err      error
}

// Select makes chat the active conversation, fetches it immediately and
// starts the scoped polling loop. Any previous chat's loop is cancelled.
func (m *Manager) Select(chat domain.Chat) tea.Cmd {
	if !m.sess.Authenticated() {
		return nil
	}
	c := chat
	m.active = &c
	m.msgs = nil
	m.draftReply = nil

	chatID := c.User.ID
	return m.poll.Start(m.fetch(chatID))
}

// Deselect leaves the conversation and stops its polling loop.
func (m *Manager) Deselect() {
	m.poll.Cancel()
	m.active = nil
	m.msgs = nil
	m.draftReply = nil
}

// Tick forwards a poller tick; dead ticks die here.
func (m *Manager) Tick(msg poller.TickMsg) tea.Cmd {
	return m.poll.Tick(msg)
}

func (m *Manager) fetch(chatID int) func(uuid.UUID) tea.Msg {
	return func(epoch uuid.UUID) tea.Msg {
		msgs, err := m.gw.GetMessages(chatID)
		if err != nil {
			log.Printf("get_messages %d failed: %v", chatID, err)
		}
		return FetchedMsg{ChatID: chatID, Epoch: epoch, Messages: msgs, Err: err}
	}
}

// Apply installs a fetched conversation if it still belongs to the active
// chat selection. Returns false for discarded (stale-scope or failed)
// results.
func (m *Manager) Apply(chatID int, epoch uuid.UUID, msgs []domain.Message, err error) bool {
	if err != nil {
		return false
	}
	if m.active == nil || m.active.User.ID != chatID {
		return false
	}
	if epoch != m.poll.Epoch() {
		return false
	}
	m.msgs = msgs
	return true
}

// Send submits trimmed content to the active chat, then refetches the full
// list instead of appending locally, so the display always matches what the
// server persisted. Empty content or no active chat is a no-op. The draft
// reply target, if any, rides along and is cleared when the send succeeds.
func (m *Manager) Send(content string) tea.Cmd {
	content = strings.TrimSpace(content)
	if content == "" || m.active == nil || !m.sess.Authenticated() {
		return nil
	}
	chatID := m.active.User.ID
	replyTo := 0
	if m.draftReply != nil {
		replyTo = m.draftReply.ID
	}
	epoch := m.poll.Epoch()
	return func() tea.Msg {
		if err := m.gw.SendMessage(chatID, content, replyTo); err != nil {
			log.Printf("send_message to %d failed: %v", chatID, err)
			return SentMsg{ChatID: chatID, Epoch: epoch, Err: err}
		}
		msgs, err := m.gw.GetMessages(chatID)
		if err != nil {
			log.Printf("get_messages %d failed: %v", chatID, err)
		}
		return SentMsg{ChatID: chatID, Epoch: epoch, Messages: msgs, Err: err}
	}
}

// ApplySent installs the post-send refetch and clears the draft reply. A
// failed send keeps both the draft and the previous list.
func (m *Manager) ApplySent(msg SentMsg) bool {
	if !m.Apply(msg.ChatID, msg.Epoch, msg.Messages, msg.Err) {
		return false
	}
	m.draftReply = nil
	return true
}

// Action dispatches a message action. reply and copy are purely local: no
// network call, no flag on any message changes. pin, hide and clear call the
// backend then refetch; edit additionally requires the new content to be
// supplied explicitly and no-ops without it.
func (m *Manager) Action(kind string, msg *domain.Message, newContent string) tea.Cmd {
	switch kind {
	case ActionReply:
		if msg == nil {
			return nil
		}
		target := *msg
		m.draftReply = &target
		return nil

	case ActionCopy:
		if msg == nil {
			return nil
		}
		content := msg.Content
		return func() tea.Msg {
			if err := clipboard.WriteAll(content); err != nil {
				log.Printf("clipboard write failed: %v", err)
			}
			return nil
		}

	case domain.MessageActionPin, domain.MessageActionHide:
		if msg == nil || m.active == nil || !m.sess.Authenticated() {
			return nil
		}
		return m.roundTrip(kind, msg.ID, "", 0)

	case domain.MessageActionEdit:
		newContent = strings.TrimSpace(newContent)
		if msg == nil || newContent == "" || m.active == nil || !m.sess.Authenticated() {
			return nil
		}
		return m.roundTrip(kind, msg.ID, newContent, 0)

	case domain.MessageActionClear:
		if m.active == nil || !m.sess.Authenticated() {
			return nil
		}
		return m.roundTrip(kind, 0, "", m.active.User.ID)
	}
	return nil
}

func (m *Manager) roundTrip(kind string, messageID int, content string, peerID int) tea.Cmd {
	chatID := m.active.User.ID
	epoch := m.poll.Epoch()
	return func() tea.Msg {
		if err := m.gw.MessageAction(kind, messageID, content, peerID); err != nil {
			log.Printf("message_action %s failed: %v", kind, err)
			return ActionDoneMsg{ChatID: chatID, Kind: kind, Epoch: epoch, Err: err}
		}
		msgs, err := m.gw.GetMessages(chatID)
		if err != nil {
			log.Printf("get_messages %d failed: %v", chatID, err)
		}
		return ActionDoneMsg{ChatID: chatID, Kind: kind, Epoch: epoch, Messages: msgs, Err: err}
	}
}

// CancelReply drops the draft reply target.
func (m *Manager) CancelReply() {
	m.draftReply = nil
}

// Active returns the selected chat, nil when on the chat list.
func (m *Manager) Active() *domain.Chat {
	return m.active
}

// Messages returns the displayed conversation, in server order.
func (m *Manager) Messages() []domain.Message {
	return m.msgs
}

// DraftReply returns the message being replied to, nil when none.
func (m *Manager) DraftReply() *domain.Message {
	return m.draftReply
}

// MessageByID finds a message in the displayed list.
func (m *Manager) MessageByID(id int) *domain.Message {
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			return &m.msgs[i]
		}
	}
	return nil
}
