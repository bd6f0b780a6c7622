package search

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/domain"
	"online/follows"
	"online/gateway"
	"online/session"
	"online/ui/common"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Bold(true)
)

type Model struct {
	Gw      *gateway.Client
	Sess    *session.Session
	Res     *follows.Resolver
	Input   textinput.Model
	Results []domain.FollowUser
	Cursor  int
	Width   int
	Height  int
	queried bool

	// relation holds follow states toggled from this view, keyed by user
	// id. Search results carry no relationship flags of their own.
	relation map[int]follows.State
}

type resultsMsg struct {
	query string
	users []domain.FollowUser
	epoch uuid.UUID
	err   error
}

func InitialModel(gw *gateway.Client, sess *session.Session, res *follows.Resolver) Model {
	input := textinput.New()
	input.Placeholder = "search users"
	input.CharLimit = 50
	input.Width = 40
	input.Focus()

	return Model{Gw: gw, Sess: sess, Res: res, Input: input, relation: make(map[int]follows.State)}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("search %q failed: %v", msg.query, msg.err)
			return m, nil
		}
		m.Results = msg.users
		m.Cursor = 0
		m.queried = true
		return m, nil

	case follows.ToggledMsg:
		if !m.Res.Accept(msg.Epoch) || msg.Err != nil {
			return m, nil
		}
		m.relation[msg.UserID] = msg.State
		return m, nil

	case common.LoggedOutMsg:
		m.Results = nil
		m.Cursor = 0
		m.queried = false
		m.relation = make(map[int]follows.State)
		m.Input.SetValue("")
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.Input.Focused() {
				q := strings.TrimSpace(m.Input.Value())
				if q == "" {
					return m, nil
				}
				m.Input.Blur()
				gw := m.Gw
				epoch := m.Sess.Epoch()
				return m, func() tea.Msg {
					users, err := gw.Search(q)
					return resultsMsg{query: q, users: users, epoch: epoch, err: err}
				}
			}
			if m.Cursor < len(m.Results) {
				username := m.Results[m.Cursor].Username
				return m, func() tea.Msg {
					return common.OpenProfileMsg{Username: username}
				}
			}
		case "/":
			if !m.Input.Focused() {
				return m, m.Input.Focus()
			}
		case "esc":
			if m.Input.Focused() {
				m.Input.Blur()
				return m, nil
			}
		case "f":
			if !m.Input.Focused() && m.Cursor < len(m.Results) {
				return m, m.Res.Toggle(m.Results[m.Cursor].ID)
			}
		case "up", "k":
			if !m.Input.Focused() && m.Cursor > 0 {
				m.Cursor--
				return m, nil
			}
		case "down", "j":
			if !m.Input.Focused() && m.Cursor < len(m.Results)-1 {
				m.Cursor++
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Search"))
	s.WriteString("\n\n")
	s.WriteString(m.Input.View() + "\n\n")

	if m.queried && len(m.Results) == 0 {
		s.WriteString(common.EmptyStyle.Render("No users found.") + "\n")
	}
	for i, u := range m.Results {
		name := u.Name()
		if u.IsVerified {
			name += " " + common.VerifiedMark
		}
		line := fmt.Sprintf("%s  @%s", name, u.Username)
		if st, ok := m.relation[u.ID]; ok && st != follows.None {
			line += fmt.Sprintf(" [%s]", st)
		}
		if i == m.Cursor && !m.Input.Focused() {
			line = selectedStyle.Render("> " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		s.WriteString(line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("enter: search/open • f: follow • /: edit query • j/k: move"))
	return s.String()
}
