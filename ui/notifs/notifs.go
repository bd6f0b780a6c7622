package notifs

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"online/domain"
	"online/follows"
	"online/notifications"
	"online/ui/common"
	"online/util"
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

	unreadDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREEN))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Faint(true)

	requestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_YELLOW))
)

// Model lists notifications newest first. Opening the view marks everything
// read server-side; follow requests stay actionable until accepted or
// rejected here.
type Model struct {
	Agg    *notifications.Aggregator
	Res    *follows.Resolver
	List   []domain.Notification
	Cursor int
	Width  int
	Height int
	status string
}

func InitialModel(agg *notifications.Aggregator, res *follows.Resolver) Model {
	return Model{Agg: agg, Res: res}
}

func (m Model) Init() tea.Cmd {
	return m.Agg.Load()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notifications.LoadedMsg:
		if !m.Agg.Accept(msg) {
			return m, nil
		}
		m.List = msg.Notifications
		if m.Cursor >= len(m.List) {
			m.Cursor = 0
		}
		return m, nil

	case follows.ResolvedMsg:
		if !m.Res.Accept(msg.Epoch) {
			return m, nil
		}
		if msg.Err != nil {
			log.Printf("follow request resolution failed: %v", msg.Err)
			return m, nil
		}
		if !msg.Matched {
			// The request is gone server-side; drop the stale entry.
			m.remove(msg.NotifID)
			m.status = "request no longer pending"
			return m, nil
		}
		m.remove(msg.NotifID)
		if msg.Action == follows.ActionAccept {
			m.status = "request accepted"
		} else {
			m.status = "request rejected"
		}
		return m, nil

	case common.AuthSuccessMsg:
		return m, m.Agg.Load()

	case common.LoggedOutMsg:
		m.List = nil
		m.Cursor = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.List)-1 {
			m.Cursor++
		}
	case "r":
		return m, m.Agg.Load()
	case "a":
		if n := m.current(); n != nil && n.Type == domain.NotifFollowRequest {
			return m, m.Res.ResolveByUsername(n.ID, n.FromUsername, follows.ActionAccept)
		}
	case "x":
		if n := m.current(); n != nil && n.Type == domain.NotifFollowRequest {
			return m, m.Res.ResolveByUsername(n.ID, n.FromUsername, follows.ActionReject)
		}
	case "enter":
		if n := m.current(); n != nil && n.FromUsername != "" {
			username := n.FromUsername
			return m, func() tea.Msg {
				return common.OpenProfileMsg{Username: username}
			}
		}
	}
	return m, nil
}

func (m Model) current() *domain.Notification {
	if m.Cursor < 0 || m.Cursor >= len(m.List) {
		return nil
	}
	return &m.List[m.Cursor]
}

func (m *Model) remove(notifID int) {
	for i := range m.List {
		if m.List[i].ID == notifID {
			m.List = append(m.List[:i], m.List[i+1:]...)
			break
		}
	}
	if m.Cursor >= len(m.List) && m.Cursor > 0 {
		m.Cursor = len(m.List) - 1
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("Notifications (%d)", len(m.List))))
	s.WriteString("\n\n")

	if len(m.List) == 0 {
		s.WriteString(common.EmptyStyle.Render("Nothing here yet."))
	} else {
		for i, n := range m.List {
			dot := "  "
			if !n.IsRead {
				dot = unreadDotStyle.Render("● ")
			}
			line := fmt.Sprintf("%s %s %s %s",
				notifications.TypeIcon(n.Type),
				n.ActorName(),
				notifications.TypeLabel(n.Type),
				timeStyle.Render(util.TimeAgo(n.CreatedAt)),
			)
			if n.Type == domain.NotifFollowRequest {
				line += " " + requestStyle.Render("[a: accept / x: reject]")
			}
			if i == m.Cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = rowStyle.Render("  " + line)
			}
			s.WriteString(dot + line + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("j/k: move • a/x: follow request • enter: profile • r: refresh"))
	return s.String()
}
