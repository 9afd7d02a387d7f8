package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

var ErrUserQuit = errors.New("user quit")

// dispatcher is the command surface the TUI drives. Every page talks to the
// session through it, exactly like the local HTTP agent does.
type dispatcher interface {
	Dispatch(ctx context.Context, cmd service.Command) models.Response
}

type TUI struct {
	dispatcher dispatcher
	updates    <-chan models.SyncStatus
	buildInfo  models.AppBuildInfo
	logger     *logger.Logger
}

// New builds the terminal UI. updates is a sync notification subscription;
// it may be nil when no notifications are wanted.
func New(d dispatcher, updates <-chan models.SyncStatus, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		dispatcher: d,
		updates:    updates,
		buildInfo:  buildInfo,
		logger:     logger,
	}
}

// Run blocks until the user quits or ctx is cancelled. A quit through
// ctrl+c returns ErrUserQuit.
func (t *TUI) Run(ctx context.Context) error {
	root := t.newRoot(ctx)

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run tui: %w", err)
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}

func (t *TUI) newRoot(ctx context.Context) RootModel {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(ctx, t.dispatcher),
		pageLogin:    NewLoginModel(ctx, t.dispatcher),
		pageUnlock:   NewUnlockModel(ctx, t.dispatcher),
		pageSettings: NewSettingsModel(ctx, t.dispatcher),
		pageList:     NewListModel(ctx, t.dispatcher),
		pageDetail:   NewDetailModel(ctx, t.dispatcher),
		pageAdd:      NewAddCredentialModel(ctx, t.dispatcher),
	}

	return NewRootModel(pages, pageMenu, t.buildInfo, t.updates)
}
