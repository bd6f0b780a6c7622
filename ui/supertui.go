package ui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"online/db"
	"online/follows"
	"online/gateway"
	"online/interactions"
	"online/messages"
	"online/notifications"
	"online/session"
	"online/ui/admin"
	"online/ui/chat"
	"online/ui/common"
	"online/ui/feed"
	"online/ui/header"
	"online/ui/login"
	"online/ui/notifs"
	"online/ui/profile"
	"online/ui/search"
	"online/ui/settings"
	"online/util"
)

var viewStyle = lipgloss.NewStyle().
	Align(lipgloss.Top, lipgloss.Top).
	MarginLeft(1).
	MarginTop(1)

type MainModel struct {
	width  int
	height int
	state  common.SessionState

	sess *session.Session
	gw   *gateway.Client
	mgr  *messages.Manager

	headerModel   header.Model
	loginModel    login.Model
	feedModel     feed.Model
	searchModel   search.Model
	chatModel     chat.Model
	notifsModel   notifs.Model
	profileModel  profile.Model
	settingsModel settings.Model
	adminModel    admin.Model
}

func NewModel(conf *util.AppConfig, gw *gateway.Client, sess *session.Session, width, height int) MainModel {
	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	agg := notifications.NewAggregator(gw, sess)
	res := follows.NewResolver(gw, sess)
	store := interactions.NewStore(gw, sess)
	mgr := messages.NewManager(gw, sess, time.Duration(conf.Conf.ChatPollSeconds)*time.Second)

	state := common.AuthView
	if sess.Authenticated() {
		state = common.FeedView
	}

	return MainModel{
		width:  width,
		height: height,
		state:  state,
		sess:   sess,
		gw:     gw,
		mgr:    mgr,

		headerModel:   header.NewModel(width, sess, agg, time.Duration(conf.Conf.NotifPollSeconds)*time.Second),
		loginModel:    login.InitialModel(gw),
		feedModel:     feed.InitialModel(gw, sess, store),
		searchModel:   search.InitialModel(gw, sess, res),
		chatModel:     chat.InitialModel(mgr, sess),
		notifsModel:   notifs.InitialModel(agg, res),
		profileModel:  profile.InitialModel(gw, sess, res, store),
		settingsModel: settings.InitialModel(gw, sess),
		adminModel:    admin.InitialModel(gw, sess),
	}
}

func (m MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loginModel.Init()}
	if m.sess.Authenticated() {
		cmds = append(cmds,
			m.headerModel.Init(),
			m.feedModel.Init(),
			m.chatModel.Init(),
			m.profileModel.Init(),
		)
	}
	return tea.Batch(cmds...)
}

// nextState cycles the main views in tab order; AuthView is not part of the
// cycle.
var tabOrder = []common.SessionState{
	common.FeedView,
	common.SearchView,
	common.ChatsView,
	common.NotifsView,
	common.ProfileView,
	common.SettingsView,
}

func (m MainModel) cycle(backwards bool) common.SessionState {
	order := tabOrder
	if m.sess.IsAdmin() {
		order = append(append([]common.SessionState{}, tabOrder...), common.AdminView)
	}
	for i, s := range order {
		if s == m.state {
			if backwards {
				return order[(i+len(order)-1)%len(order)]
			}
			return order[(i+1)%len(order)]
		}
	}
	return common.FeedView
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headerModel.Width = msg.Width
		m.feedModel.Width = msg.Width
		m.feedModel.Height = msg.Height
		m.profileModel.Width = msg.Width
		m.profileModel.Height = msg.Height
		return m, nil

	case common.AuthSuccessMsg:
		m.sess.SetAuth(msg.Token, msg.User)
		if err := db.GetDB().SaveToken(msg.Token); err != nil {
			log.Printf("token save failed: %v", err)
		}
		m.state = common.FeedView

	case common.LoggedOutMsg:
		m.sess.Logout()
		if err := db.GetDB().ClearToken(); err != nil {
			log.Printf("token clear failed: %v", err)
		}
		m.state = common.AuthView

	case common.OpenProfileMsg:
		m.profileModel, cmd = m.profileModel.Open(msg.Username)
		m.state = common.ProfileView
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+x":
			if m.state != common.AuthView {
				return m, func() tea.Msg { return common.LoggedOutMsg{} }
			}
		case "tab":
			// The chat conversation and text inputs own their keys; only
			// cycle views from browsing contexts.
			if m.state != common.AuthView && !m.typing() {
				m.state = m.cycle(false)
				return m, m.viewInitCmd(m.state)
			}
		case "shift+tab":
			if m.state != common.AuthView && !m.typing() {
				m.state = m.cycle(true)
				return m, m.viewInitCmd(m.state)
			}
		}
	}

	// Non-key messages reach every submodel so load results and poller
	// ticks land wherever they belong. Key input goes only to the focused
	// view.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.headerModel, cmd = m.headerModel.Update(msg)
		cmds = append(cmds, cmd)
		m.loginModel, cmd = m.loginModel.Update(msg)
		cmds = append(cmds, cmd)
		m.feedModel, cmd = m.feedModel.Update(msg)
		cmds = append(cmds, cmd)
		m.searchModel, cmd = m.searchModel.Update(msg)
		cmds = append(cmds, cmd)
		m.chatModel, cmd = m.chatModel.Update(msg)
		cmds = append(cmds, cmd)
		m.notifsModel, cmd = m.notifsModel.Update(msg)
		cmds = append(cmds, cmd)
		m.profileModel, cmd = m.profileModel.Update(msg)
		cmds = append(cmds, cmd)
		m.settingsModel, cmd = m.settingsModel.Update(msg)
		cmds = append(cmds, cmd)
		m.adminModel, cmd = m.adminModel.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch m.state {
	case common.AuthView:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case common.FeedView:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case common.SearchView:
		m.searchModel, cmd = m.searchModel.Update(msg)
	case common.ChatsView:
		m.chatModel, cmd = m.chatModel.Update(msg)
	case common.NotifsView:
		m.notifsModel, cmd = m.notifsModel.Update(msg)
	case common.ProfileView:
		m.profileModel, cmd = m.profileModel.Update(msg)
	case common.SettingsView:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	case common.AdminView:
		m.adminModel, cmd = m.adminModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// typing reports whether the focused view is in a text-entry mode, in which
// case tab must not steal focus.
func (m MainModel) typing() bool {
	switch m.state {
	case common.SearchView:
		return m.searchModel.Input.Focused()
	case common.ChatsView:
		return m.chatModel.Typing()
	case common.FeedView:
		return m.feedModel.Typing()
	case common.SettingsView:
		return m.settingsModel.Typing()
	}
	return false
}

func (m MainModel) viewInitCmd(state common.SessionState) tea.Cmd {
	switch state {
	case common.FeedView:
		return m.feedModel.Init()
	case common.ChatsView:
		return m.mgr.LoadChats()
	case common.NotifsView:
		return m.notifsModel.Init()
	case common.ProfileView:
		return m.profileModel.Init()
	case common.AdminView:
		return m.adminModel.Init()
	}
	return nil
}

func (m MainModel) View() string {
	if m.state == common.AuthView {
		return m.loginModel.ViewWithWidth(m.width, m.height)
	}

	var body string
	switch m.state {
	case common.FeedView:
		body = m.feedModel.View()
	case common.SearchView:
		body = m.searchModel.View()
	case common.ChatsView:
		body = m.chatModel.View()
	case common.NotifsView:
		body = m.notifsModel.View()
	case common.ProfileView:
		body = m.profileModel.View()
	case common.SettingsView:
		body = m.settingsModel.View()
	case common.AdminView:
		body = m.adminModel.View()
	}

	s := m.headerModel.View() + "\n"
	s += viewStyle.MaxWidth(m.width).Render(body) + "\n"
	s += common.HelpStyle.Render("tab: next view • shift+tab: prev • ctrl-x: log out • ctrl-c: exit")
	return s
}
