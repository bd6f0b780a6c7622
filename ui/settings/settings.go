package settings

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/domain"
	"online/gateway"
	"online/session"
	"online/ui/common"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE))
)

// Editable rows, in display order. Boolean rows toggle on enter; text rows
// open the input.
var fields = []struct {
	key     string
	label   string
	boolean bool
}{
	{"display_name", "display name", false},
	{"bio", "bio", false},
	{"avatar_url", "avatar url", false},
	{"links", "links", false},
	{"theme", "theme", false},
	{"is_private", "private account", true},
	{"messages_enabled", "allow messages", true},
}

type Model struct {
	Gw     *gateway.Client
	Sess   *session.Session
	Cursor int
	Width  int
	Height int

	input   textinput.Model
	editing bool
	status  string
}

type savedMsg struct {
	user  *domain.User
	epoch uuid.UUID
	err   error
}

type verifyRequestedMsg struct {
	err error
}

func InitialModel(gw *gateway.Client, sess *session.Session) Model {
	input := textinput.New()
	input.CharLimit = 300
	input.Width = 50

	return Model{Gw: gw, Sess: sess, input: input}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			m.status = gateway.UserMessage(msg.err)
			return m, nil
		}
		if msg.user != nil {
			m.Sess.SetUser(msg.user)
		}
		m.status = "saved"
		return m, nil

	case verifyRequestedMsg:
		if msg.err != nil {
			m.status = gateway.UserMessage(msg.err)
			return m, nil
		}
		m.status = "verification requested"
		return m, nil

	case common.LoggedOutMsg:
		m.editing = false
		m.input.Blur()
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	u := m.Sess.User()
	if u == nil {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(fields)-1 {
			m.Cursor++
		}
	case "enter":
		f := fields[m.Cursor]
		if f.boolean {
			return m, m.save(map[string]any{f.key: !m.boolValue(u, f.key)})
		}
		m.editing = true
		m.input.Placeholder = f.label
		if f.key == "links" {
			m.input.Placeholder = "label=url label2=url2"
		}
		m.input.SetValue(m.textValue(u, f.key))
		return m, m.input.Focus()
	case "v":
		gw := m.Gw
		return m, func() tea.Msg {
			return verifyRequestedMsg{err: gw.RequestVerification()}
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		f := fields[m.Cursor]
		value := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		if f.key == "links" {
			return m, m.save(map[string]any{f.key: parseLinks(value)})
		}
		return m, m.save(map[string]any{f.key: value})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// save submits the change then refetches me, so the session user always
// reflects what the server persisted.
func (m Model) save(change map[string]any) tea.Cmd {
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		if err := gw.UpdateProfile(change); err != nil {
			log.Printf("update_profile failed: %v", err)
			return savedMsg{epoch: epoch, err: err}
		}
		user, err := gw.Me()
		if err != nil {
			log.Printf("me refetch failed: %v", err)
		}
		return savedMsg{user: user, epoch: epoch, err: err}
	}
}

// Typing reports whether a field is being edited.
func (m Model) Typing() bool {
	return m.editing
}

func (m Model) textValue(u *domain.User, key string) string {
	switch key {
	case "display_name":
		return u.DisplayName
	case "bio":
		return u.Bio
	case "avatar_url":
		return u.AvatarURL
	case "links":
		return formatLinks(u.Links)
	case "theme":
		return u.Theme
	}
	return ""
}

// Links are edited as space separated label=url pairs.
func parseLinks(value string) map[string]string {
	links := map[string]string{}
	for _, pair := range strings.Fields(value) {
		label, url, ok := strings.Cut(pair, "=")
		if ok && label != "" && url != "" {
			links[label] = url
		}
	}
	return links
}

func formatLinks(links map[string]string) string {
	var pairs []string
	for label, url := range links {
		pairs = append(pairs, label+"="+url)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

func (m Model) boolValue(u *domain.User, key string) bool {
	switch key {
	case "is_private":
		return u.IsPrivate
	case "messages_enabled":
		return u.MessagesEnabled
	}
	return false
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Settings"))
	s.WriteString("\n\n")

	u := m.Sess.User()
	if u == nil {
		s.WriteString(common.EmptyStyle.Render("Not signed in."))
		return s.String()
	}

	for i, f := range fields {
		var value string
		if f.boolean {
			if m.boolValue(u, f.key) {
				value = "on"
			} else {
				value = "off"
			}
		} else {
			value = m.textValue(u, f.key)
			if value == "" {
				value = "(empty)"
			}
		}
		line := fmt.Sprintf("%-16s %s", f.label, valueStyle.Render(value))
		if i == m.Cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = fieldStyle.Render("  ") + line
		}
		s.WriteString(line + "\n")
	}

	verified := "not verified"
	if u.IsVerified {
		verified = "verified " + common.VerifiedMark
	}
	s.WriteString("\n" + valueStyle.Render(verified) + "\n")

	if m.editing {
		s.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("j/k: move • enter: edit/toggle • v: request verification • ctrl-x: log out"))
	return s.String()
}
