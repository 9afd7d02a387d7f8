package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	urlColWidth  = 36
	userColWidth = 28
)

// ListModel shows the cached credentials with an incremental search.
type ListModel struct {
	ctx        context.Context
	dispatcher dispatcher

	items   []models.Credential
	idx     int
	loading bool
	syncing bool
	spinner spinner.Model

	search    textinput.Model
	searching bool

	status        string
	showError     bool
	errorOverlay  errorOverlayModel
	confirmLogout bool
}

func NewListModel(ctx context.Context, d dispatcher) *ListModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	in := textinput.New()
	in.Placeholder = "search url or username"
	in.CharLimit = 256
	in.Width = 40
	in.Prompt = "/ "

	return &ListModel{ctx: ctx, dispatcher: d, spinner: s, search: in, loading: true}
}

func (m *ListModel) Init() tea.Cmd {
	m.loading = true
	m.showError = false
	m.confirmLogout = false
	return m.reload()
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.status = msg.text
		return m, tea.Batch(m.Init(), clearStatusAfter(statusTTL))
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case credentialsLoadedMsg:
		m.loading = false
		m.items = msg.resp.Credentials
		if m.idx >= len(m.items) {
			m.idx = max(len(m.items)-1, 0)
		}
		return m, nil
	case syncStatusMsg:
		if msg.Error {
			return m, nil
		}
		return m, m.reload()
	case syncDoneMsg:
		m.syncing = false
		if errMsg := responseError(msg.resp); errMsg != "" {
			m.showError = true
			m.errorOverlay = errorOverlayModel{message: errMsg}
			return m, nil
		}
		return m, m.reload()
	case logoutDoneMsg:
		m.items = nil
		m.idx = 0
		m.search.SetValue("")
		return m, navigate(pageMenu)
	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *ListModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showError {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.showError = false
		}
		return m, nil
	}

	if m.confirmLogout {
		switch {
		case key.Matches(msg, keys.yes):
			m.confirmLogout = false
			return m, cmdLogout(m.ctx, m.dispatcher)
		case key.Matches(msg, keys.no):
			m.confirmLogout = false
		}
		return m, nil
	}

	if m.searching {
		switch {
		case key.Matches(msg, keys.esc):
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			return m, m.reload()
		case key.Matches(msg, keys.enter):
			m.searching = false
			m.search.Blur()
			return m, nil
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.idx = 0
			return m, tea.Batch(cmd, m.reload())
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if c, ok := m.current(); ok {
			return m, func() tea.Msg { return NavigateTo{Page: pageDetail, Payload: showCredentialMsg{credential: c}} }
		}
	case key.Matches(msg, keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, keys.newItem):
		return m, navigate(pageAdd)
	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, tea.Batch(m.spinner.Tick, cmdSync(m.ctx, m.dispatcher))
	case key.Matches(msg, keys.logout):
		m.confirmLogout = true
	case msg.String() == "q":
		return m, tea.Quit
	}

	return m, nil
}

func (m *ListModel) View() string {
	if m.showError {
		return m.errorOverlay.View()
	}
	if m.confirmLogout {
		return confirmModel{message: "Log out and lock the vault?"}.View()
	}

	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.items) == 0:
		b.WriteString("No credentials\n")
	default:
		b.WriteString(fmt.Sprintf("  %-*s │ %-*s │ MFA\n", urlColWidth, "Website", userColWidth, "Username"))
		for i, c := range m.items {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			mfa := ""
			if c.HasMFA {
				mfa = "yes"
			}
			row := fmt.Sprintf("%s%-*s │ %-*s │ %s", cursor,
				urlColWidth, fitText(c.WebsiteURL, urlColWidth),
				userColWidth, fitText(c.Username, userColWidth),
				mfa)
			if i == m.idx {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n")
	}

	title := "CREDENTIALS"
	if m.syncing {
		title += "  " + m.spinner.View() + " syncing"
	}

	return renderPage(title, strings.TrimRight(b.String(), "\n"),
		"enter: open │ /: search │ n: new │ s: sync │ L: log out │ q: quit")
}

func (m *ListModel) current() (models.Credential, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Credential{}, false
	}
	return m.items[m.idx], true
}

func (m *ListModel) reload() tea.Cmd {
	return cmdListCredentials(m.ctx, m.dispatcher, strings.TrimSpace(m.search.Value()))
}
