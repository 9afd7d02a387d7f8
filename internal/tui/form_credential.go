package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	fieldWebsite = iota
	fieldUsername
	fieldPassword
	fieldMFASecret
	credentialFieldCount
)

var credentialFieldLabels = [credentialFieldCount]string{
	"Website:   ",
	"Username:  ",
	"Password:  ",
	"MFA seed:  ",
}

// AddCredentialModel creates a credential on the service. The session
// syncs after a successful create, so the list picks it up on return.
type AddCredentialModel struct {
	ctx        context.Context
	dispatcher dispatcher

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func NewAddCredentialModel(ctx context.Context, d dispatcher) *AddCredentialModel {
	inputs := make([]textinput.Model, credentialFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 2048
	}
	inputs[fieldWebsite].Placeholder = "https://example.com"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '*'
	inputs[fieldMFASecret].Placeholder = "base32, optional"

	return &AddCredentialModel{ctx: ctx, dispatcher: d, inputs: inputs}
}

// Init starts from an empty form.
func (m *AddCredentialModel) Init() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldWebsite
	m.submitting = false
	m.errMsg = ""
	return m.inputs[m.focus].Focus()
}

func (m *AddCredentialModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if added, ok := msg.(credentialAddedMsg); ok {
		m.submitting = false
		if errMsg := responseError(added.resp); errMsg != "" {
			m.errMsg = errMsg
			return m, nil
		}
		notice := noticeMsg{text: "Credential saved"}
		return m, func() tea.Msg { return NavigateTo{Page: pageList, Payload: notice} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			return m, navigate(pageList)
		case key.Matches(keyMsg, keys.tab):
			return m, m.moveFocus(1)
		case key.Matches(keyMsg, keys.backtab):
			return m, m.moveFocus(-1)
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}
			credential := m.toCredential()
			if credential.WebsiteURL == "" || credential.Username == "" || credential.Password == "" {
				m.errMsg = "Website, username and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			ctx, d := m.ctx, m.dispatcher
			return m, func() tea.Msg {
				return credentialAddedMsg{resp: d.Dispatch(ctx, service.AddCredentialCommand{Credential: credential})}
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *AddCredentialModel) View() string {
	var b strings.Builder
	for i, in := range m.inputs {
		b.WriteString(credentialFieldLabels[i])
		b.WriteString("[")
		b.WriteString(in.View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Saving...]\n")
	} else {
		b.WriteString("\n[Save]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
	}

	return renderPage("NEW CREDENTIAL", strings.TrimRight(b.String(), "\n"), "esc: cancel │ tab: next field │ enter: save")
}

func (m *AddCredentialModel) toCredential() models.NewCredential {
	return models.NewCredential{
		WebsiteURL: strings.TrimSpace(m.inputs[fieldWebsite].Value()),
		Username:   strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Password:   m.inputs[fieldPassword].Value(),
		MFASecret:  strings.ToUpper(strings.ReplaceAll(m.inputs[fieldMFASecret].Value(), " ", "")),
	}
}

func (m *AddCredentialModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}
