package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
)

// UnlockModel opens the local vault with the master password only. The
// session syncs in the background afterwards.
type UnlockModel struct {
	ctx        context.Context
	dispatcher dispatcher

	password   textinput.Model
	submitting bool
	errMsg     string
}

func NewUnlockModel(ctx context.Context, d dispatcher) *UnlockModel {
	in := textinput.New()
	in.Placeholder = "master password"
	in.CharLimit = 256
	in.Width = 40
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	in.Focus()

	return &UnlockModel{ctx: ctx, dispatcher: d, password: in}
}

func (m *UnlockModel) Init() tea.Cmd {
	m.password.SetValue("")
	m.submitting = false
	return textinput.Blink
}

func (m *UnlockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(unlockDoneMsg); ok {
		m.submitting = false
		m.password.SetValue("")
		if errMsg := responseError(done.resp); errMsg != "" {
			m.errMsg = errMsg
			return m, nil
		}
		m.errMsg = ""
		return m, navigate(pageList)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.errMsg = ""
			return m, navigate(pageMenu)
		case "enter":
			if m.submitting {
				return m, nil
			}
			password := m.password.Value()
			if password == "" {
				m.errMsg = "Password is required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			ctx, d := m.ctx, m.dispatcher
			return m, func() tea.Msg {
				return unlockDoneMsg{resp: d.Dispatch(ctx, service.UnlockCommand{Password: password})}
			}
		}
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *UnlockModel) View() string {
	var b strings.Builder
	b.WriteString("Password  │ [")
	b.WriteString(m.password.View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Unlocking...]\n")
	} else {
		b.WriteString("\n[Unlock]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
	}

	return renderPage("UNLOCK", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: unlock")
}
