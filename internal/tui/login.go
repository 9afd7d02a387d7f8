// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

// LoginModel is the Bubble Tea model for the login screen. It renders two
// text inputs (username and password) and dispatches a login command on
// submission. The session falls back to the local vault on its own when the
// credential service cannot be used, so the screen only reports which path
// was taken.
type LoginModel struct {
	ctx        context.Context
	dispatcher dispatcher

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with pre-configured username and
// password inputs. The password field uses masked echo.
func NewLoginModel(ctx context.Context, d dispatcher) *LoginModel {
	loginInput := textinput.New()
	loginInput.Placeholder = "username"
	loginInput.CharLimit = 150
	loginInput.Width = 40
	loginInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return &LoginModel{
		ctx:        ctx,
		dispatcher: d,
		inputs:     []textinput.Model{loginInput, passwordInput},
	}
}

// Init implements [tea.Model]. It clears the password left over from a
// previous visit and starts the cursor blink.
func (m *LoginModel) Init() tea.Cmd {
	m.inputs[1].SetValue("")
	m.submitting = false
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [loginDoneMsg]  clears submitting state, then opens the list or shows the error.
//   - esc             navigates back to the menu.
//   - tab, shift+tab  move focus between inputs.
//   - enter           validates inputs and dispatches the login command.
//
// All other key events are forwarded to the focused input widget.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(loginDoneMsg); ok {
		m.submitting = false
		m.inputs[1].SetValue("")
		if errMsg := responseError(done.resp); errMsg != "" {
			m.errMsg = errMsg
			return m, nil
		}
		m.errMsg = ""
		notice := noticeMsg{text: loginModeLabel(done.resp.Mode)}
		return m, func() tea.Msg { return NavigateTo{Page: pageList, Payload: notice} }
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.errMsg = ""
			return m, navigate(pageMenu)
		case "tab":
			m.focusNext()
			return m, nil
		case "shift+tab":
			m.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			username := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if username == "" || password == "" {
				m.errMsg = "Username and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(username, password)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString("Field     │ Value\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Username  │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password  │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Logging in...]\n")
	} else {
		b.WriteString("\n[Log in]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("LOG IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdLogin(username, password string) tea.Cmd {
	ctx := m.ctx
	d := m.dispatcher

	return func() tea.Msg {
		return loginDoneMsg{resp: d.Dispatch(ctx, service.LoginCommand{Username: username, Password: password})}
	}
}

func (m *LoginModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *LoginModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// loginModeLabel renders the path a successful login took.
func loginModeLabel(mode *models.LoginMode) string {
	if mode == nil {
		return ""
	}
	switch *mode {
	case models.LoginModeOnline:
		return "Logged in online"
	case models.LoginModeOffline:
		return "Offline mode: opened the local vault"
	default:
		return ""
	}
}
