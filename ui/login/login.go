package login

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"online/gateway"
	"online/ui/common"
	"online/util"
)

var (
	Style = lipgloss.NewStyle().Height(25).Width(80).
		Align(lipgloss.Center, lipgloss.Center).
		BorderStyle(lipgloss.ThickBorder()).
		Margin(0, 3)
)

// Model is the login/register form. Validation errors from the backend are
// surfaced verbatim; this is one of the few surfaces that does not fail
// quiet.
type Model struct {
	Gw       *gateway.Client
	Username textinput.Model
	Email    textinput.Model
	Password textinput.Model
	Register bool
	Step     int // 0=username (register only), 1=email, 2=password
	Busy     bool
	Err      string
}

type resultMsg struct {
	res *gateway.AuthResult
	err error
}

func InitialModel(gw *gateway.Client) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 30
	username.Width = 30

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 100
	email.Width = 30
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.Width = 30
	password.EchoMode = textinput.EchoPassword

	return Model{
		Gw:       gw,
		Username: username,
		Email:    email,
		Password: password,
		Step:     1,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case resultMsg:
		m.Busy = false
		if msg.err != nil {
			m.Err = gateway.UserMessage(msg.err)
			return m, nil
		}
		m.Err = ""
		m.Password.SetValue("")
		return m, func() tea.Msg {
			return common.AuthSuccessMsg{Token: msg.res.Token, User: msg.res.User}
		}

	case tea.KeyMsg:
		if m.Busy {
			return m, nil
		}
		switch msg.String() {
		case "tab":
			// Switch between login and register
			m.Register = !m.Register
			m.Err = ""
			if m.Register {
				m.Step = 0
				m.focus(0)
			} else {
				m.Step = 1
				m.focus(1)
			}
			return m, nil
		case "enter":
			if m.Register && m.Step == 0 {
				m.Step = 1
				m.focus(1)
				return m, nil
			}
			if m.Step == 1 {
				m.Step = 2
				m.focus(2)
				return m, nil
			}
			return m.submit()
		}
	}

	switch m.Step {
	case 0:
		m.Username, cmd = m.Username.Update(msg)
	case 1:
		m.Email, cmd = m.Email.Update(msg)
	case 2:
		m.Password, cmd = m.Password.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.Username.Value())
	email := strings.TrimSpace(m.Email.Value())
	password := m.Password.Value()

	if email == "" || password == "" || (m.Register && username == "") {
		m.Err = "fill in all fields"
		return m, nil
	}

	m.Busy = true
	m.Err = ""
	gw := m.Gw
	register := m.Register
	return m, func() tea.Msg {
		if register {
			res, err := gw.Register(username, email, password)
			return resultMsg{res: res, err: err}
		}
		res, err := gw.Login(email, password)
		return resultMsg{res: res, err: err}
	}
}

func (m *Model) focus(step int) {
	m.Username.Blur()
	m.Email.Blur()
	m.Password.Blur()
	switch step {
	case 0:
		m.Username.Focus()
	case 1:
		m.Email.Focus()
	case 2:
		m.Password.Focus()
	}
}

func (m Model) View() string {
	var b strings.Builder

	mode := "log in"
	if m.Register {
		mode = "register"
	}
	b.WriteString(fmt.Sprintf("Welcome to ONLINE v%s (%s)\n\n", util.GetVersion(), mode))

	if m.Register {
		b.WriteString("username  " + m.Username.View() + "\n")
	}
	b.WriteString("email     " + m.Email.View() + "\n")
	b.WriteString("password  " + m.Password.View() + "\n\n")

	if m.Busy {
		b.WriteString(common.StatusStyle.Render("signing in...") + "\n")
	}
	if m.Err != "" {
		b.WriteString(common.ErrorStyle.Render(m.Err) + "\n")
	}

	b.WriteString("\n(enter: next/submit • tab: switch login/register • ctrl-c: quit)")
	return b.String()
}

// ViewWithWidth centers the bordered form in the terminal.
func (m Model) ViewWithWidth(termWidth, termHeight int) string {
	contentWidth := termWidth - 8
	if contentWidth < 40 {
		contentWidth = 40
	}
	bordered := Style.Width(contentWidth).Render(m.View())
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, bordered)
}
