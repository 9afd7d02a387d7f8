package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	pageMenu     = "menu"
	pageLogin    = "login"
	pageUnlock   = "unlock"
	pageSettings = "settings"
	pageList     = "list"
	pageDetail   = "detail"
	pageAdd      = "add"
)

// NavigateTo asks RootModel to switch the active page. When Payload is set
// it is delivered to the new page instead of running the page's Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

func navigate(page string) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page} }
}

type statusLoadedMsg struct {
	status models.SessionStatus
}

type loginDoneMsg struct {
	resp models.Response
}

type unlockDoneMsg struct {
	resp models.Response
}

type credentialsLoadedMsg struct {
	resp models.Response
}

type syncDoneMsg struct {
	resp models.Response
}

type logoutDoneMsg struct{}

type oneTimeCodeMsg struct {
	resp models.Response
}

type credentialAddedMsg struct {
	resp models.Response
}

type apiURLSavedMsg struct {
	resp models.Response
}

// syncStatusMsg wraps a notification received from the session.
type syncStatusMsg models.SyncStatus

// showCredentialMsg opens the detail page for one credential.
type showCredentialMsg struct {
	credential models.Credential
}

type copiedMsg struct {
	what string
	err  error
}

// noticeMsg opens a page with a one-off status line.
type noticeMsg struct {
	text string
}

type clearStatusMsg struct{}
