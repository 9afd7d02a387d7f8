package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

type fakeDispatcher struct {
	mu       sync.Mutex
	commands []service.Command
	respond  func(cmd service.Command) models.Response
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd service.Command) models.Response {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(cmd)
	}
	return models.Response{Success: true}
}

func (f *fakeDispatcher) sent() []service.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Command(nil), f.commands...)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// run executes cmd and returns the message it produces. Only use it on
// commands that return immediately.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok && len(batch) == 1 {
		return run(t, batch[0])
	}
	return msg
}

func newTestRoot(d dispatcher, updates <-chan models.SyncStatus) RootModel {
	ctx := context.Background()
	pages := map[string]tea.Model{
		pageMenu:   NewMenuModel(ctx, d),
		pageList:   NewListModel(ctx, d),
		pageDetail: NewDetailModel(ctx, d),
	}
	return NewRootModel(pages, pageMenu, models.NewAppBuildInfo("1.2.3", "2026-03-01", "abc"), updates)
}

// ─────────────────────────────────────────────
// RootModel
// ─────────────────────────────────────────────

func TestRootModel_InitLoadsStatus(t *testing.T) {
	d := &fakeDispatcher{respond: func(service.Command) models.Response {
		return models.Response{Success: true, Status: &models.SessionStatus{HasVault: true}}
	}}
	root := newTestRoot(d, nil)

	msg := run(t, root.Init())
	loaded, ok := msg.(statusLoadedMsg)
	require.True(t, ok)
	assert.True(t, loaded.status.HasVault)
	assert.Equal(t, []service.Command{service.StatusCommand{}}, d.sent())
}

func TestRootModel_Navigation(t *testing.T) {
	root := newTestRoot(&fakeDispatcher{}, nil)

	updated, _ := root.Update(NavigateTo{Page: "nowhere"})
	assert.Equal(t, pageMenu, updated.(RootModel).page)

	cred := models.Credential{ID: 7, WebsiteURL: "https://a.com"}
	updated, cmd := updated.Update(NavigateTo{Page: pageDetail, Payload: showCredentialMsg{credential: cred}})
	r := updated.(RootModel)
	assert.Equal(t, pageDetail, r.page)
	assert.Equal(t, showCredentialMsg{credential: cred}, run(t, cmd), "payload replaces Init")

	updated, _ = r.Update(run(t, cmd))
	assert.Contains(t, updated.View(), "https://a.com")
}

func TestRootModel_CtrlCQuits(t *testing.T) {
	root := newTestRoot(&fakeDispatcher{}, nil)

	updated, cmd := root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, updated.(RootModel).quitByUser)
	assert.IsType(t, tea.QuitMsg{}, run(t, cmd))
}

func TestRootModel_BuildInfoOnlyFromMenu(t *testing.T) {
	root := newTestRoot(&fakeDispatcher{}, nil)

	updated, _ := root.Update(keyRunes("v"))
	assert.Contains(t, updated.View(), "1.2.3")

	updated, _ = updated.Update(keyEsc)
	assert.NotContains(t, updated.View(), "1.2.3")

	updated, _ = updated.Update(NavigateTo{Page: pageDetail, Payload: showCredentialMsg{}})
	updated, _ = updated.Update(keyRunes("v"))
	assert.False(t, updated.(RootModel).showBuildInfo)
}

func TestRootModel_SyncStatusLine(t *testing.T) {
	updates := make(chan models.SyncStatus, 1)
	root := newTestRoot(&fakeDispatcher{}, updates)
	assert.NotContains(t, root.View(), "Sync complete.")

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated, cmd := root.Update(syncStatusMsg{Status: "Sync complete.", At: at})

	require.NotNil(t, updated.(RootModel).lastSync)
	assert.Contains(t, updated.View(), "Sync complete.")

	updates <- models.SyncStatus{Status: "Sync failed: boom", Error: true}
	assert.Equal(t, syncStatusMsg{Status: "Sync failed: boom", Error: true}, run(t, cmd), "subscription is re-armed")
}

func TestWaitForSyncStatus(t *testing.T) {
	assert.Nil(t, waitForSyncStatus(nil))

	closed := make(chan models.SyncStatus)
	close(closed)
	assert.Nil(t, run(t, waitForSyncStatus(closed)))
}

func TestSyncStatusLine(t *testing.T) {
	assert.Empty(t, syncStatusLine(nil))
	assert.Contains(t, syncStatusLine(&models.SyncStatus{Status: "Sync complete."}), "Sync complete.")
}

func TestResponseError(t *testing.T) {
	tests := []struct {
		name string
		resp models.Response
		want string
	}{
		{name: "success", resp: models.Response{Success: true}, want: ""},
		{name: "message", resp: models.Response{Error: "Invalid password."}, want: "Invalid password."},
		{name: "no message", resp: models.Response{}, want: "Internal error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, responseError(tt.resp))
		})
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"héllo wörld", 6, "hél..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fitText(tt.in, tt.max))
	}
}
