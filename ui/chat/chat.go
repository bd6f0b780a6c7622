package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"online/domain"
	"online/messages"
	"online/poller"
	"online/session"
	"online/ui/common"
	"online/util"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	chatRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
				Bold(true)

	unreadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREEN)).
			Bold(true)

	ownMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	peerMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Faint(true)

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_YELLOW))

	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).
			PaddingLeft(2)
)

// Model renders two screens: the chat list and, once a chat is selected
// through the Manager, the conversation itself.
type Model struct {
	Mgr    *messages.Manager
	Sess   *session.Session
	Chats  []domain.Chat
	Cursor int
	MsgCur int
	Width  int
	Height int

	input   textinput.Model
	typing  bool
	editing bool // the input edits the selected message instead of drafting
	status  string
}

func InitialModel(mgr *messages.Manager, sess *session.Session) Model {
	input := textinput.New()
	input.Placeholder = "message"
	input.CharLimit = 1000
	input.Width = 60

	return Model{
		Mgr:   mgr,
		Sess:  sess,
		input: input,
	}
}

func (m Model) Init() tea.Cmd {
	return m.Mgr.LoadChats()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChatsLoadedMsg:
		if m.Mgr.AcceptChats(msg) {
			m.Chats = msg.Chats
			if m.Cursor >= len(m.Chats) {
				m.Cursor = 0
			}
		}
		return m, nil

	case messages.FetchedMsg:
		m.Mgr.Apply(msg.ChatID, msg.Epoch, msg.Messages, msg.Err)
		m.clampMsgCursor()
		return m, nil

	case messages.SentMsg:
		m.Mgr.ApplySent(msg)
		m.clampMsgCursor()
		return m, nil

	case messages.ActionDoneMsg:
		m.Mgr.Apply(msg.ChatID, msg.Epoch, msg.Messages, msg.Err)
		m.clampMsgCursor()
		return m, nil

	case poller.TickMsg:
		return m, m.Mgr.Tick(msg)

	case common.AuthSuccessMsg:
		return m, m.Mgr.LoadChats()

	case common.LoggedOutMsg:
		m.Mgr.Deselect()
		m.Chats = nil
		m.Cursor = 0
		m.MsgCur = 0
		m.typing = false
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		if m.Mgr.Active() != nil {
			return m.handleConversationKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Chats)-1 {
			m.Cursor++
		}
	case "r":
		return m, m.Mgr.LoadChats()
	case "enter":
		if m.Cursor < len(m.Chats) {
			m.MsgCur = 0
			return m, m.Mgr.Select(m.Chats[m.Cursor])
		}
	}
	return m, nil
}

func (m Model) handleConversationKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	msgs := m.Mgr.Messages()
	switch msg.String() {
	case "esc":
		m.Mgr.Deselect()
		m.MsgCur = 0
		// Unread counts were consumed by the fetch; reload the list so
		// badges reflect that.
		return m, m.Mgr.LoadChats()
	case "up", "k":
		if m.MsgCur > 0 {
			m.MsgCur--
		}
	case "down", "j":
		if m.MsgCur < len(msgs)-1 {
			m.MsgCur++
		}
	case "i":
		m.typing = true
		m.editing = false
		m.input.Placeholder = "message"
		return m, m.input.Focus()
	case "R":
		if sel := m.selected(); sel != nil {
			return m, m.Mgr.Action(messages.ActionReply, sel, "")
		}
	case "y":
		if sel := m.selected(); sel != nil {
			m.status = "copied"
			return m, m.Mgr.Action(messages.ActionCopy, sel, "")
		}
	case "p":
		if sel := m.selected(); sel != nil {
			return m, m.Mgr.Action(domain.MessageActionPin, sel, "")
		}
	case "e":
		if sel := m.selected(); sel != nil && m.own(sel) {
			m.typing = true
			m.editing = true
			m.input.Placeholder = "edit message"
			m.input.SetValue(sel.Content)
			return m, m.input.Focus()
		}
	case "h":
		if sel := m.selected(); sel != nil {
			return m, m.Mgr.Action(domain.MessageActionHide, sel, "")
		}
	case "X":
		return m, m.Mgr.Action(domain.MessageActionClear, nil, "")
	case "q":
		m.Mgr.CancelReply()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.editing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		text := m.input.Value()
		editing := m.editing
		sel := m.selected()
		m.typing = false
		m.editing = false
		m.input.Blur()
		m.input.SetValue("")
		if editing {
			return m, m.Mgr.Action(domain.MessageActionEdit, sel, text)
		}
		return m, m.Mgr.Send(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Typing reports whether the message input has focus.
func (m Model) Typing() bool {
	return m.typing
}

func (m *Model) selected() *domain.Message {
	msgs := m.Mgr.Messages()
	if m.MsgCur < 0 || m.MsgCur >= len(msgs) {
		return nil
	}
	return &msgs[m.MsgCur]
}

func (m Model) own(msg *domain.Message) bool {
	u := m.Sess.User()
	return u != nil && u.ID == msg.SenderID
}

func (m *Model) clampMsgCursor() {
	n := len(m.Mgr.Messages())
	if n == 0 {
		m.MsgCur = 0
	} else if m.MsgCur >= n {
		m.MsgCur = n - 1
	}
}

func (m Model) View() string {
	if m.Mgr.Active() != nil {
		return m.viewConversation()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("Chats (%d)", len(m.Chats))))
	s.WriteString("\n\n")

	if len(m.Chats) == 0 {
		s.WriteString(common.EmptyStyle.Render("No conversations yet."))
	} else {
		for i, c := range m.Chats {
			name := c.User.Name()
			if c.User.IsVerified {
				name += " " + common.VerifiedMark
			}
			line := fmt.Sprintf("%-20s %s", name, util.Truncate(c.LastMessage.Content, 40))
			if c.UnreadCount > 0 {
				line += unreadStyle.Render(fmt.Sprintf("  (%d new)", c.UnreadCount))
			}
			line += "  " + metaStyle.Render(util.TimeAgo(c.LastMessage.CreatedAt))
			if i == m.Cursor {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = chatRowStyle.Render("  " + line)
			}
			s.WriteString(line + "\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("j/k: move • enter: open • r: refresh"))
	return s.String()
}

func (m Model) viewConversation() string {
	var s strings.Builder
	active := m.Mgr.Active()
	name := active.User.Name()
	if active.User.IsVerified {
		name += " " + common.VerifiedMark
	}
	s.WriteString(headerStyle.Render("Chat with " + name))
	s.WriteString("\n")

	msgs := m.Mgr.Messages()
	if len(msgs) == 0 {
		s.WriteString(common.EmptyStyle.Render("No messages yet. Say hi!") + "\n")
	}
	for i, msg := range msgs {
		style := peerMsgStyle
		who := msg.SenderName
		if who == "" {
			who = msg.SenderUsername
		}
		if m.own(&msg) {
			style = ownMsgStyle
			who = "me"
		}

		prefix := "  "
		if i == m.MsgCur {
			prefix = "> "
		}

		if msg.ReplyToID != nil {
			if target := m.Mgr.MessageByID(*msg.ReplyToID); target != nil {
				s.WriteString(replyStyle.Render("↪ "+util.Truncate(target.Content, 50)) + "\n")
			}
		}

		line := fmt.Sprintf("%s%s: %s", prefix, who, msg.Content)
		if msg.IsPinned {
			line = pinStyle.Render("📌 ") + line
		}
		meta := util.ClockTime(msg.CreatedAt)
		if msg.EditedAt != nil {
			meta += " (edited)"
		}
		if m.own(&msg) && msg.IsRead {
			meta += " ✓✓"
		}
		s.WriteString(style.Render(line) + " " + metaStyle.Render(meta) + "\n")
	}

	if dr := m.Mgr.DraftReply(); dr != nil {
		s.WriteString("\n" + replyStyle.Render("replying to: "+util.Truncate(dr.Content, 60)+" (q to cancel)") + "\n")
	}
	if m.typing {
		s.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("i: write • R: reply • y: copy • p: pin • e: edit • h: hide • X: clear chat • esc: back"))
	return s.String()
}
