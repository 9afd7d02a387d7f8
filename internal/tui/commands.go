package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

const statusTTL = 2 * time.Second

func cmdStatus(ctx context.Context, d dispatcher) tea.Cmd {
	return func() tea.Msg {
		resp := d.Dispatch(ctx, service.StatusCommand{})
		if resp.Status == nil {
			return statusLoadedMsg{}
		}
		return statusLoadedMsg{status: *resp.Status}
	}
}

func cmdListCredentials(ctx context.Context, d dispatcher, query string) tea.Cmd {
	return func() tea.Msg {
		if query == "" {
			return credentialsLoadedMsg{resp: d.Dispatch(ctx, service.ListCredentialsCommand{})}
		}
		return credentialsLoadedMsg{resp: d.Dispatch(ctx, service.SearchCommand{Query: query})}
	}
}

func cmdSync(ctx context.Context, d dispatcher) tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{resp: d.Dispatch(ctx, service.SyncCommand{})}
	}
}

func cmdLogout(ctx context.Context, d dispatcher) tea.Cmd {
	return func() tea.Msg {
		d.Dispatch(ctx, service.LogoutCommand{})
		return logoutDoneMsg{}
	}
}

// waitForSyncStatus blocks on the next notification. A nil or closed
// channel yields no message.
func waitForSyncStatus(updates <-chan models.SyncStatus) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		status, ok := <-updates
		if !ok {
			return nil
		}
		return syncStatusMsg(status)
	}
}

func cmdCopy(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
