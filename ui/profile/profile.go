package profile

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"online/domain"
	"online/follows"
	"online/gateway"
	"online/interactions"
	"online/session"
	"online/ui/common"
	"online/util"
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	bioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Bold(true)

	postStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedPostStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
				Padding(0, 1)

	listRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
				Bold(true)

	privateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Italic(true)
)

// Model shows one user's page. Without a username it shows the viewer's own
// profile, including the pending follow-request ledger.
type Model struct {
	Gw     *gateway.Client
	Sess   *session.Session
	Res    *follows.Resolver
	Store  *interactions.Store
	Width  int
	Height int

	Username string // whose profile; empty means own
	Prof     *domain.Profile
	Follow   follows.State
	Blocked  bool

	listType string // "", followers, following, friends, pending
	list     []domain.FollowUser
	Cursor   int
	inPosts  bool
	status   string
}

type loadedMsg struct {
	prof  *domain.Profile
	epoch uuid.UUID
	err   error
}

type blockedMsg struct {
	userID  int
	blocked bool
	epoch   uuid.UUID
	err     error
}

type reportedMsg struct {
	err error
}

func InitialModel(gw *gateway.Client, sess *session.Session, res *follows.Resolver, store *interactions.Store) Model {
	return Model{Gw: gw, Sess: sess, Res: res, Store: store}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// Open points the view at username and fetches. Called by the root model on
// OpenProfileMsg.
func (m Model) Open(username string) (Model, tea.Cmd) {
	m.Username = username
	m.Prof = nil
	m.listType = ""
	m.list = nil
	m.Cursor = 0
	m.inPosts = false
	m.status = ""
	return m, m.load()
}

func (m Model) load() tea.Cmd {
	username := m.Username
	if username == "" {
		if u := m.Sess.User(); u != nil {
			username = u.Username
		} else {
			return nil
		}
	}
	gw := m.Gw
	epoch := m.Sess.Epoch()
	return func() tea.Msg {
		prof, err := gw.Profile(username)
		if err != nil {
			log.Printf("profile %s failed: %v", username, err)
		}
		return loadedMsg{prof: prof, epoch: epoch, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if !m.Sess.Valid(msg.epoch) || msg.err != nil {
			return m, nil
		}
		m.Prof = msg.prof
		if m.Prof != nil {
			m.Follow = follows.StateOf(m.Prof.IsFollowing, m.Prof.IsPending)
			for _, p := range m.Prof.Posts {
				m.Store.Track(p)
			}
		}
		return m, nil

	case follows.ToggledMsg:
		if !m.Res.Accept(msg.Epoch) || msg.Err != nil {
			return m, nil
		}
		if m.Prof != nil && m.Prof.ID == msg.UserID {
			m.Follow = msg.State
		}
		return m, nil

	case follows.ListMsg:
		if !m.Res.Accept(msg.Epoch) || msg.Err != nil {
			return m, nil
		}
		if msg.Type == m.listType {
			m.list = msg.Users
			m.Cursor = 0
		}
		return m, nil

	case follows.RespondedMsg:
		if !m.Res.Accept(msg.Epoch) || msg.Err != nil {
			return m, nil
		}
		if m.listType == "pending" {
			// Refresh the ledger; the resolved row is gone server-side.
			return m, m.Res.List(0, "pending")
		}
		return m, nil

	case blockedMsg:
		if !m.Sess.Valid(msg.epoch) || msg.err != nil {
			return m, nil
		}
		if m.Prof != nil && m.Prof.ID == msg.userID {
			m.Blocked = msg.blocked
			if msg.blocked {
				m.status = "user blocked"
			} else {
				m.status = "user unblocked"
			}
		}
		return m, nil

	case reportedMsg:
		if msg.err != nil {
			log.Printf("report failed: %v", msg.err)
			return m, nil
		}
		m.status = "report sent"
		return m, nil

	case interactions.LikeToggledMsg:
		m.Store.ApplyLike(msg)
		return m, nil

	case interactions.RepostToggledMsg:
		m.Store.ApplyRepost(msg)
		return m, nil

	case common.AuthSuccessMsg:
		m.Username = ""
		return m, m.load()

	case common.LoggedOutMsg:
		m.Username = ""
		m.Prof = nil
		m.list = nil
		m.listType = ""
		m.Cursor = 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""
	if m.Prof == nil {
		if msg.String() == "r" {
			return m, m.load()
		}
		return m, nil
	}

	if m.listType != "" {
		return m.handleListKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Prof.Posts)-1 {
			m.Cursor++
		}
	case "r":
		return m, m.load()
	case "f":
		if !m.Prof.IsOwn {
			return m, m.Res.Toggle(m.Prof.ID)
		}
	case "l":
		if p := m.currentPost(); p != nil {
			return m, m.Store.ToggleLike(p.ID)
		}
	case "b":
		if p := m.currentPost(); p != nil {
			return m, m.Store.ToggleRepost(p.ID)
		}
	case "1":
		m.listType = "followers"
		m.list = nil
		return m, m.Res.List(m.Prof.ID, "followers")
	case "2":
		m.listType = "following"
		m.list = nil
		return m, m.Res.List(m.Prof.ID, "following")
	case "3":
		m.listType = "friends"
		m.list = nil
		return m, m.Res.List(m.Prof.ID, "friends")
	case "4":
		if m.Prof.IsOwn {
			m.listType = "pending"
			m.list = nil
			return m, m.Res.List(0, "pending")
		}
	case "B":
		if !m.Prof.IsOwn {
			gw := m.Gw
			epoch := m.Sess.Epoch()
			id := m.Prof.ID
			return m, func() tea.Msg {
				blocked, err := gw.ToggleBlock(id)
				if err != nil {
					log.Printf("toggle_block %d failed: %v", id, err)
				}
				return blockedMsg{userID: id, blocked: blocked, epoch: epoch, err: err}
			}
		}
	case "x":
		if !m.Prof.IsOwn {
			gw := m.Gw
			id := m.Prof.ID
			return m, func() tea.Msg {
				return reportedMsg{err: gw.Report(common.ReportReason, id, 0)}
			}
		}
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.listType = ""
		m.list = nil
		m.Cursor = 0
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.list)-1 {
			m.Cursor++
		}
	case "a":
		if m.listType == "pending" {
			if u := m.currentUser(); u != nil {
				return m, m.Res.Respond(u.FollowID, follows.ActionAccept)
			}
		}
	case "x":
		if m.listType == "pending" {
			if u := m.currentUser(); u != nil {
				return m, m.Res.Respond(u.FollowID, follows.ActionReject)
			}
		}
	case "enter":
		if u := m.currentUser(); u != nil {
			username := u.Username
			return m, func() tea.Msg {
				return common.OpenProfileMsg{Username: username}
			}
		}
	}
	return m, nil
}

func (m Model) currentPost() *domain.Post {
	if m.Prof == nil || m.Cursor < 0 || m.Cursor >= len(m.Prof.Posts) {
		return nil
	}
	return &m.Prof.Posts[m.Cursor]
}

func (m Model) currentUser() *domain.FollowUser {
	if m.Cursor < 0 || m.Cursor >= len(m.list) {
		return nil
	}
	return &m.list[m.Cursor]
}

func (m Model) View() string {
	if m.Prof == nil {
		return common.EmptyStyle.Render("Loading profile...")
	}
	if m.listType != "" {
		return m.viewList()
	}

	var s strings.Builder
	prof := m.Prof

	name := prof.DisplayName
	if name == "" {
		name = prof.Username
	}
	if prof.IsVerified {
		name += " " + common.VerifiedMark
	}
	s.WriteString(nameStyle.Render(name) + "  @" + prof.Username + "\n")
	if prof.Bio != "" {
		s.WriteString(bioStyle.Render(prof.Bio) + "\n")
	}
	for label, url := range prof.Links {
		s.WriteString(statStyle.Render(label+": "+url) + "\n")
	}
	s.WriteString(statStyle.Render(fmt.Sprintf("%d posts • %d followers • %d following",
		prof.PostsCount, prof.FollowersCount, prof.FollowingCount)) + "\n")

	if !prof.IsOwn {
		s.WriteString(stateStyle.Render("relationship: "+m.Follow.String()) + "\n")
	}
	if m.Blocked {
		s.WriteString(stateStyle.Render("blocked") + "\n")
	}
	s.WriteString("\n")

	if prof.IsPrivate && !prof.IsOwn && m.Follow != follows.Following {
		s.WriteString(privateStyle.Render("This account is private. Follow to see posts.") + "\n")
	} else if len(prof.Posts) == 0 {
		s.WriteString(common.EmptyStyle.Render("No posts yet.") + "\n")
	} else {
		for i, p := range prof.Posts {
			st := m.Store.Post(p.ID)
			body := fmt.Sprintf("%s\n♥ %d  ⇄ %d  💬 %d  %s",
				util.Truncate(p.Content, 160),
				st.Likes, st.Reposts, st.Comments,
				util.TimeAgo(p.CreatedAt))
			style := postStyle
			if i == m.Cursor {
				style = selectedPostStyle
			}
			s.WriteString(style.Width(min(m.Width-6, 80)).Render(body) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + common.StatusStyle.Render(m.status) + "\n")
	}

	help := "j/k: move • l: like • b: repost • 1: followers • 2: following • 3: friends • r: refresh"
	if prof.IsOwn {
		help += " • 4: requests"
	} else {
		help += " • f: follow • B: block • x: report"
	}
	s.WriteString("\n" + common.HelpStyle.Render(help))
	return s.String()
}

func (m Model) viewList() string {
	var s strings.Builder
	title := strings.ToUpper(m.listType[:1]) + m.listType[1:]
	s.WriteString(nameStyle.Render(title) + "\n\n")

	if len(m.list) == 0 {
		s.WriteString(common.EmptyStyle.Render("Nobody here."))
	} else {
		for i, u := range m.list {
			name := u.Name()
			if u.IsVerified {
				name += " " + common.VerifiedMark
			}
			line := fmt.Sprintf("%s  @%s", name, u.Username)
			if i == m.Cursor {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = listRowStyle.Render("  " + line)
			}
			s.WriteString(line + "\n")
		}
	}

	help := "j/k: move • enter: open • esc: back"
	if m.listType == "pending" {
		help = "j/k: move • a: accept • x: reject • enter: open • esc: back"
	}
	s.WriteString("\n" + common.HelpStyle.Render(help))
	return s.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
