package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

const maskedPassword = "••••••••"

// DetailModel shows one credential. Secrets go to the clipboard and the
// password is masked until revealed.
type DetailModel struct {
	ctx        context.Context
	dispatcher dispatcher

	item     models.Credential
	reveal   bool
	code     string
	fetching bool
	status   string
	errMsg   string
}

func NewDetailModel(ctx context.Context, d dispatcher) *DetailModel {
	return &DetailModel{ctx: ctx, dispatcher: d}
}

func (m *DetailModel) Init() tea.Cmd {
	return nil
}

func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case showCredentialMsg:
		m.item = msg.credential
		m.reveal = false
		m.code, m.status, m.errMsg = "", "", ""
		m.fetching = false
		return m, nil
	case oneTimeCodeMsg:
		m.fetching = false
		if errMsg := responseError(msg.resp); errMsg != "" {
			m.errMsg = errMsg
			return m, nil
		}
		m.errMsg = ""
		m.code = msg.resp.TOTP
		return m, cmdCopy("one-time code", m.code)
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "copy to clipboard: " + msg.err.Error()
			return m, nil
		}
		m.status = "Copied " + msg.what
		return m, clearStatusAfter(statusTTL)
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.reveal = false
			m.code = ""
			return m, navigate(pageList)
		case key.Matches(msg, keys.copy):
			return m, cmdCopy("password", m.item.Password)
		case key.Matches(msg, keys.copyUser):
			return m, cmdCopy("username", m.item.Username)
		case key.Matches(msg, keys.reveal):
			m.reveal = !m.reveal
		case key.Matches(msg, keys.totp):
			if !m.item.HasMFA || m.fetching {
				return m, nil
			}
			m.fetching = true
			m.errMsg = ""
			ctx, d, id := m.ctx, m.dispatcher, m.item.ID
			return m, func() tea.Msg {
				return oneTimeCodeMsg{resp: d.Dispatch(ctx, service.GetOneTimeCodeCommand{CredentialID: id})}
			}
		}
	}

	return m, nil
}

func (m *DetailModel) View() string {
	var b strings.Builder

	password := maskedPassword
	if m.reveal {
		password = m.item.Password
	}

	b.WriteString(fmt.Sprintf("Website:   %s\n", valueOrDash(m.item.WebsiteURL)))
	b.WriteString(fmt.Sprintf("Username:  %s\n", valueOrDash(m.item.Username)))
	b.WriteString(fmt.Sprintf("Password:  %s\n", password))

	switch {
	case !m.item.HasMFA:
		b.WriteString("MFA:       -\n")
	case m.fetching:
		b.WriteString("MFA:       fetching...\n")
	case m.code != "":
		b.WriteString(fmt.Sprintf("MFA:       %s\n", m.code))
	default:
		b.WriteString("MFA:       press t for a code\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	hotKeys := "c: copy password │ u: copy username │ r: reveal"
	if m.item.HasMFA {
		hotKeys += " │ t: one-time code"
	}
	hotKeys += " │ esc: back"

	return renderPage("CREDENTIAL", strings.TrimRight(b.String(), "\n"), hotKeys)
}
