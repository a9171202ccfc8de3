package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/api"
	"github.com/puneetsingh210426-hue/ai-interviewer/internal/tui"
)

// maxAuthWidth is the maximum width for the sign-in box.
const maxAuthWidth = 70

const (
	loginUsername = iota
	loginPassword
)

const (
	registerUsername = iota
	registerEmail
	registerPassword
)

// roles offered at registration.
var roles = []string{"student", "teacher"}

// AuthModel is the sign-in screen with a registration tab.
type AuthModel struct {
	register bool
	login    form
	signup   form
	roleIdx  int
	busy     bool
	width    int
	height   int
}

// NewAuthModel creates an AuthModel on the sign-in tab.
func NewAuthModel(width, height int) AuthModel {
	return AuthModel{
		login: newForm(
			newField("Username", "username"),
			newSecretField("Password", "password"),
		),
		signup: newForm(
			newField("Username", "choose a username"),
			newField("Email", "you@example.edu"),
			newSecretField("Password", "choose a password"),
		),
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the auth view.
func (m AuthModel) Init() tea.Cmd { return nil }

// SetBusy disables submission while a request is in flight.
func (m *AuthModel) SetBusy(busy bool) { m.busy = busy }

// Reset clears both tabs and returns to sign-in.
func (m *AuthModel) Reset() {
	m.login.Reset()
	m.signup.Reset()
	m.register = false
	m.busy = false
}

// Registered switches back to sign-in with the new username filled in.
func (m *AuthModel) Registered() {
	username := m.signup.Value(registerUsername)
	m.signup.Reset()
	m.register = false
	m.busy = false
	m.login.Reset()
	m.login.SetValue(loginUsername, username)
	m.login.setFocus(loginPassword)
}

// SetSize resizes the view.
func (m *AuthModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the auth view.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case tui.KeyTab, tui.KeyShiftTab:
			m.register = !m.register
			return m, nil
		case tui.KeyLeft, tui.KeyRight:
			if m.register {
				m.roleIdx = (m.roleIdx + 1) % len(roles)
				return m, nil
			}
		}
	}

	var (
		cmd       tea.Cmd
		submitted bool
	)
	if m.register {
		m.signup, cmd, submitted = m.signup.Update(msg)
	} else {
		m.login, cmd, submitted = m.login.Update(msg)
	}
	if !submitted || m.busy {
		return m, cmd
	}

	m.busy = true
	if m.register {
		req := api.RegisterRequest{
			Username: m.signup.Value(registerUsername),
			Email:    m.signup.Value(registerEmail),
			Password: m.signup.Value(registerPassword),
			UserType: roles[m.roleIdx],
		}
		return m, func() tea.Msg { return tui.RegisterRequestMsg{Request: req} }
	}
	username, password := m.login.Value(loginUsername), m.login.Value(loginPassword)
	return m, func() tea.Msg {
		return tui.LoginRequestMsg{Username: username, Password: password}
	}
}

// View renders the auth view.
func (m AuthModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("AI Interview Coach"))
	b.WriteString("\n\n")

	tabs := []string{"Sign in", "Register"}
	active := 0
	if m.register {
		active = 1
	}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if i == active {
			rendered[i] = tui.ActiveTabStyle.Render(t)
		} else {
			rendered[i] = tui.InactiveTabStyle.Render(t)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")

	if m.register {
		b.WriteString(m.signup.View())
		b.WriteString("\n\n")
		b.WriteString(renderChoices("Role", roles, m.roleIdx, false))
	} else {
		b.WriteString(m.login.View())
	}
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(tui.DimStyle.Render("Please wait..."))
	} else if m.register {
		b.WriteString(tui.DimStyle.Render("Enter: Next/Submit · ←/→: Role · Tab: Sign in"))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter: Next/Submit · Tab: Register"))
	}

	boxWidth := maxAuthWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	boxed := tui.BoxStyle.Width(boxWidth).Render(b.String())
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, boxed)
}
