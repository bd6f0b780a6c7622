package header

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/notifications"
	"online/poller"
	"online/session"
	"online/ui/common"
	"online/util"
)

// Model is the top bar: identity, version and the unread notification badge.
// The badge runs its own 30-second poll, independent of the notification
// page's own loads; the two may transiently disagree within one interval.
type Model struct {
	Width  int
	Sess   *session.Session
	Agg    *notifications.Aggregator
	poll   *poller.Poller
	unread int
}

func NewModel(width int, sess *session.Session, agg *notifications.Aggregator, interval time.Duration) Model {
	return Model{
		Width: width,
		Sess:  sess,
		Agg:   agg,
		poll:  poller.New("navbadge", interval),
	}
}

// badgeMsg carries one badge poll result.
type badgeMsg struct {
	unread int
	epoch  uuid.UUID
	err    error
}

func (m Model) Init() tea.Cmd {
	return m.startPolling()
}

// startPolling begins (or restarts) the badge poll. No-op without a session.
func (m Model) startPolling() tea.Cmd {
	if !m.Sess.Authenticated() {
		return nil
	}
	authEpoch := m.Sess.Epoch()
	agg := m.Agg
	return m.poll.Start(func(uuid.UUID) tea.Msg {
		unread, err := agg.Unread()
		return badgeMsg{unread: unread, epoch: authEpoch, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case poller.TickMsg:
		return m, m.poll.Tick(msg)

	case common.AuthSuccessMsg:
		return m, m.startPolling()

	case common.LoggedOutMsg:
		m.poll.Cancel()
		m.unread = 0
		return m, nil

	case badgeMsg:
		if msg.err == nil && m.Sess.Valid(msg.epoch) {
			m.unread = msg.unread
		}
		return m, nil

	case notifications.LoadedMsg:
		// The notification page just fetched the same quantity; reflect it
		// rather than waiting out the badge interval.
		if msg.Err == nil && m.Sess.Valid(msg.Epoch) {
			m.unread = notifications.UnreadCount(msg.Notifications)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	user := m.Sess.User()
	if user == nil {
		return ""
	}

	name := user.Username
	if user.IsVerified {
		name += " " + common.VerifiedMark
	}

	badge := ""
	if m.unread > 0 {
		label := fmt.Sprintf("%d", m.unread)
		if m.unread > 9 {
			label = "9+"
		}
		badge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_RED)).
			Bold(true).
			Render(fmt.Sprintf(" ● %s unread", label))
	}

	left := lipgloss.NewStyle().
		Foreground(lipgloss.Color(common.COLOR_PURPLE)).
		Bold(true).
		Padding(0, 1).
		Render("@" + name)

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color(common.COLOR_GREY)).
		Padding(0, 1).
		Render(util.GetNameAndVersion() + badge)

	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(common.COLOR_DARK_GREY)).
		Width(m.Width).
		Render(bar)
}
