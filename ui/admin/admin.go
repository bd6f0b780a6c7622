package admin

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/domain"
	"online/gateway"
	"online/session"
	"online/ui/common"
	"online/util"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(common.COLOR_RED)).
			MarginBottom(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY))

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Faint(true)
)

const (
	tabReports = iota
	tabVerifications
)

// Model is the moderation queue, reachable only for admin accounts. All
// actions refetch the queue so resolved rows disappear.
type Model struct {
	Gw     *gateway.Client
	Sess   *session.Session
	Tab    int
	Cursor int
	Width  int
	Height int

	reports       []domain.Report
	verifications []domain.VerificationRequest
	status        string
}

type loadedMsg struct {
	res   *gateway.AdminReportsResult
	epoch uuid.UUID
	err   error
}

type actionDoneMsg struct {
	epoch uuid.UUID
	err   error
}

func InitialModel(gw *gateway.Client, sess *session.Session) Model {
	return Model{Gw: gw, Sess: sess}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	if !m.Sess.IsAdmin() {
		return nil
	}
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		res, err := gw.AdminReports()
		if err != nil {
			log.Printf("admin_reports failed: %v", err)
		}
		return loadedMsg{res: res, epoch: epoch, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.Sess.Valid(msg.epoch) || msg.err != nil {
			return m, nil
		}
		m.reports = msg.res.Reports
		m.verifications = msg.res.Verifications
		m.clamp()
		return m, nil

	case actionDoneMsg:
		if !m.Sess.Valid(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			m.status = gateway.UserMessage(msg.err)
			return m, nil
		}
		return m, m.load()

	case common.AuthSuccessMsg:
		return m, m.load()

	case common.LoggedOutMsg:
		m.reports = nil
		m.verifications = nil
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
	case "tab":
		m.Tab = (m.Tab + 1) % 2
		m.Cursor = 0
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < m.rowCount()-1 {
			m.Cursor++
		}
	case "r":
		return m, m.load()
	}

	if m.Tab == tabReports {
		return m.handleReportKey(msg)
	}
	return m.handleVerifyKey(msg)
}

func (m Model) handleReportKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	rep := m.currentReport()
	if rep == nil {
		return m, nil
	}
	switch msg.String() {
	case "b":
		if rep.ReportedUserID != nil {
			return m, m.action(domain.AdminBlockUser, *rep.ReportedUserID, 0, 0)
		}
	case "u":
		if rep.ReportedUserID != nil {
			return m, m.action(domain.AdminUnblockUser, *rep.ReportedUserID, 0, 0)
		}
	case "d":
		if rep.ReportedPostID != nil {
			return m, m.action(domain.AdminRemovePost, 0, *rep.ReportedPostID, 0)
		}
	case "enter":
		return m, m.action(domain.AdminResolveReport, 0, 0, rep.ID)
	}
	return m, nil
}

func (m Model) handleVerifyKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	req := m.currentVerification()
	if req == nil {
		return m, nil
	}
	switch msg.String() {
	case "a", "enter":
		return m, m.verify(req.ID, "approve")
	case "x":
		return m, m.verify(req.ID, "reject")
	}
	return m, nil
}

func (m Model) action(kind string, userID, postID, reportID int) tea.Cmd {
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		err := gw.AdminAction(kind, userID, postID, reportID)
		if err != nil {
			log.Printf("admin_action %s failed: %v", kind, err)
		}
		return actionDoneMsg{epoch: epoch, err: err}
	}
}

func (m Model) verify(requestID int, action string) tea.Cmd {
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		err := gw.AdminVerify(requestID, action)
		if err != nil {
			log.Printf("admin_verify %s failed: %v", action, err)
		}
		return actionDoneMsg{epoch: epoch, err: err}
	}
}

func (m Model) rowCount() int {
	if m.Tab == tabReports {
		return len(m.reports)
	}
	return len(m.verifications)
}

func (m Model) currentReport() *domain.Report {
	if m.Tab != tabReports || m.Cursor < 0 || m.Cursor >= len(m.reports) {
		return nil
	}
	return &m.reports[m.Cursor]
}

func (m Model) currentVerification() *domain.VerificationRequest {
	if m.Tab != tabVerifications || m.Cursor < 0 || m.Cursor >= len(m.verifications) {
		return nil
	}
	return &m.verifications[m.Cursor]
}

func (m *Model) clamp() {
	if n := m.rowCount(); m.Cursor >= n {
		if n == 0 {
			m.Cursor = 0
		} else {
			m.Cursor = n - 1
		}
	}
}

func (m Model) View() string {
	if !m.Sess.IsAdmin() {
		return common.EmptyStyle.Render("Admin access required.")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("Moderation"))
	s.WriteString("\n")

	tabs := []string{
		fmt.Sprintf("reports (%d)", len(m.reports)),
		fmt.Sprintf("verifications (%d)", len(m.verifications)),
	}
	for i, t := range tabs {
		if i == m.Tab {
			s.WriteString(activeTabStyle.Render("["+t+"]") + " ")
		} else {
			s.WriteString(tabStyle.Render(" "+t+" ") + " ")
		}
	}
	s.WriteString("\n\n")

	if m.Tab == tabReports {
		m.viewReports(&s)
	} else {
		m.viewVerifications(&s)
	}

	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")
	if m.Tab == tabReports {
		s.WriteString(common.HelpStyle.Render("j/k: move • b: block user • u: unblock • d: remove post • enter: resolve • tab: switch • r: refresh"))
	} else {
		s.WriteString(common.HelpStyle.Render("j/k: move • a: approve • x: reject • tab: switch • r: refresh"))
	}
	return s.String()
}

func (m Model) viewReports(s *strings.Builder) {
	if len(m.reports) == 0 {
		s.WriteString(common.EmptyStyle.Render("No open reports."))
		return
	}
	for i, rep := range m.reports {
		target := "?"
		if rep.ReportedUserID != nil {
			target = "@" + rep.ReportedUsername
		} else if rep.ReportedPostID != nil {
			target = fmt.Sprintf("post #%d", *rep.ReportedPostID)
		}
		line := fmt.Sprintf("#%d %s by @%s: %s %s",
			rep.ID, target, rep.ReporterUsername,
			util.Truncate(rep.Reason, 60),
			metaStyle.Render(util.TimeAgo(rep.CreatedAt)))
		if i == m.Cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		s.WriteString(line + "\n")
	}
}

func (m Model) viewVerifications(s *strings.Builder) {
	if len(m.verifications) == 0 {
		s.WriteString(common.EmptyStyle.Render("No pending verification requests."))
		return
	}
	for i, req := range m.verifications {
		line := fmt.Sprintf("#%d @%s %s", req.ID, req.Username,
			metaStyle.Render(util.TimeAgo(req.CreatedAt)))
		if i == m.Cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		s.WriteString(line + "\n")
	}
}
