package service

import (
	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/notify"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
)

type ClientServices struct {
	SessionService ClientSessionService
	QueryService   ClientQueryService
	SyncJob        ClientSyncJob
	Dispatcher     *Dispatcher
}

func NewClientServices(
	storage store.VaultStorage,
	remote adapter.RemoteClient,
	notifier notify.Notifier,
	cfg config.ClientApp,
	logger *logger.Logger,
) *ClientServices {
	engine := crypto.NewEngine(cfg.KDF)
	validator := validators.NewCredentialValidator()

	sessionSvc := NewClientSessionService(engine, storage, remote, validator, notifier, cfg.Limits, logger)
	querySvc := NewClientQueryService(sessionSvc, storage, remote, validator, logger)

	return &ClientServices{
		SessionService: sessionSvc,
		QueryService:   querySvc,
		SyncJob:        NewClientSyncJob(sessionSvc),
		Dispatcher:     NewDispatcher(sessionSvc, querySvc, logger),
	}
}
