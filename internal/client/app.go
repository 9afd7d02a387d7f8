package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/tui"
	"github.com/MKhiriev/go-pass-vault/internal/workers"
)

// UI is the interactive front end driven by [App].
type UI interface {
	Run(ctx context.Context) error
}

// Closer releases the local storage once the session is closed.
type Closer interface {
	Close() error
}

type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	storage  Closer
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, w *workers.Workers, storage Closer, logger *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app needs services and a ui")
	}

	return &App{
		services: services,
		ui:       ui,
		workers:  w,
		storage:  storage,
		logger:   logger,
	}, nil
}

// Run restores persisted settings, starts background workers and blocks in
// the UI. On return the session is locked and storage is released.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := a.services.SessionService.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if a.workers != nil {
		a.workers.Start(ctx)
	}

	err := a.ui.Run(ctx)
	if errors.Is(err, tui.ErrUserQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}

	a.shutdown()

	return err
}

func (a *App) shutdown() {
	if a.workers != nil {
		a.workers.Stop()
	}
	a.services.SessionService.Close()

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Err(err).Msg("close local storage")
		}
	}
	a.logger.Info().Msg("client stopped")
}
