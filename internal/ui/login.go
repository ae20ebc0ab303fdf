package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/services"
)

const (
	loginName = iota
	loginEmail
	loginPassword
	loginFieldCount
)

// loginModel drives authentication: login by default, registration when
// toggled. The email field is trimmed before submission; the submit action is
// disabled while a request is pending.
type loginModel struct {
	ctx  context.Context
	auth services.Auth
	keys keyMap

	registering bool
	inputs      []textinput.Model
	focus       int
	pending     bool
	err         error
	notice      string
}

func newLoginModel(ctx context.Context, auth services.Auth, keys keyMap) loginModel {
	m := loginModel{ctx: ctx, auth: auth, keys: keys}

	labels := []string{"name", "email", "password"}
	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label
		input.CharLimit = 200
		if i == loginPassword {
			input.EchoMode = textinput.EchoPassword
		}
		m.inputs = append(m.inputs, input)
	}
	m.setFocus(loginEmail)

	return m
}

func (m *loginModel) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// firstField is the topmost visible field: email for login, name for register.
func (m *loginModel) firstField() int {
	if m.registering {
		return loginName
	}
	return loginEmail
}

func (m *loginModel) nextFocus(delta int) int {
	first := m.firstField()
	count := loginFieldCount - first
	pos := m.focus - first
	return first + ((pos+delta)%count+count)%count
}

func (m *loginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
		}
		return nil

	case registerDoneMsg:
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return nil
		}
		m.err = nil
		m.registering = false
		m.notice = fmt.Sprintf("Registered %s, log in to continue", msg.user.Email)
		m.inputs[loginPassword].SetValue("")
		m.setFocus(loginEmail)
		return nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return nil
}

func (m *loginModel) handleKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.nextFocus(1))
		return nil
	case "shift+tab", "up":
		m.setFocus(m.nextFocus(-1))
		return nil
	case "ctrl+r":
		m.registering = !m.registering
		m.err = nil
		m.notice = ""
		m.setFocus(m.firstField())
		return nil
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *loginModel) submit() tea.Cmd {
	if m.pending {
		return nil
	}

	email := strings.TrimSpace(m.inputs[loginEmail].Value())
	password := m.inputs[loginPassword].Value()
	name := strings.TrimSpace(m.inputs[loginName].Value())

	if email == "" || password == "" {
		m.err = fmt.Errorf("email and password are required")
		return nil
	}
	if m.registering && name == "" {
		m.err = fmt.Errorf("name is required")
		return nil
	}

	m.err = nil
	m.notice = ""
	m.pending = true

	if m.registering {
		return func() tea.Msg {
			user, err := m.auth.Register(m.ctx, name, email, password)
			return registerDoneMsg{user: user, err: err}
		}
	}
	return func() tea.Msg {
		auth, err := m.auth.Login(m.ctx, email, password)
		return loginDoneMsg{auth: auth, err: err}
	}
}

func (m *loginModel) View() string {
	var b strings.Builder

	title := "Log In"
	if m.registering {
		title = "Register"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n\n")
	}

	for i := m.firstField(); i < loginFieldCount; i++ {
		marker := "  "
		if m.focus == i {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, m.inputs[i].View())
	}

	if m.pending {
		b.WriteString("\n")
		b.WriteString(styles.help.Render("Signing in..."))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	b.WriteString("\n\n")
	toggle := "ctrl+r register"
	if m.registering {
		toggle = "ctrl+r back to login"
	}
	b.WriteString(styles.help.Render("enter submit • " + toggle + " • q quit"))
	return b.String()
}
