package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
)

// SettingsModel edits the credential service base URL.
type SettingsModel struct {
	ctx        context.Context
	dispatcher dispatcher

	input  textinput.Model
	saving bool
	status string
	errMsg string
}

func NewSettingsModel(ctx context.Context, d dispatcher) *SettingsModel {
	in := textinput.New()
	in.Placeholder = "https://vault.example.com/api"
	in.CharLimit = 2048
	in.Width = 50
	in.Focus()

	return &SettingsModel{ctx: ctx, dispatcher: d, input: in}
}

// Init loads the current URL into the input.
func (m *SettingsModel) Init() tea.Cmd {
	m.status, m.errMsg = "", ""
	return tea.Batch(cmdStatus(m.ctx, m.dispatcher), textinput.Blink)
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		m.input.SetValue(msg.status.APIURL)
		m.input.CursorEnd()
		return m, nil
	case apiURLSavedMsg:
		m.saving = false
		if errMsg := responseError(msg.resp); errMsg != "" {
			m.errMsg = errMsg
			return m, nil
		}
		m.errMsg = ""
		m.status = "Saved"
		return m, cmdStatus(m.ctx, m.dispatcher)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, navigate(pageMenu)
		case "enter":
			if m.saving {
				return m, nil
			}
			raw := strings.TrimSpace(m.input.Value())
			m.saving = true
			m.status, m.errMsg = "", ""
			ctx, d := m.ctx, m.dispatcher
			return m, func() tea.Msg {
				return apiURLSavedMsg{resp: d.Dispatch(ctx, service.SetAPIURLCommand{APIURL: raw})}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	var b strings.Builder
	b.WriteString("API URL  │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	switch {
	case m.saving:
		b.WriteString("\n[Saving...]\n")
	case m.errMsg != "":
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString("\n")
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n")
	}

	return renderPage("SETTINGS", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: save")
}
