package main

import (
	"context"
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	handler "github.com/MKhiriev/go-pass-vault/internal/handler/http"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/notify"
	"github.com/MKhiriev/go-pass-vault/internal/server"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/workers"
	"github.com/MKhiriev/go-pass-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// signals are handled by the server; key material is purged on return
	defer memguard.Purge()

	printBuildInfo()

	log := logger.NewLogger("go-pass-agent")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	remote, err := adapter.NewHTTPRemoteClient(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote client")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("close local storage")
		}
	}()

	broadcaster := notify.NewBroadcaster()
	services := service.NewClientServices(storages.Vault, remote, broadcaster, cfg.App, log)
	defer services.SessionService.Close()

	if err = services.SessionService.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("restore session")
	}

	bg := workers.NewWorkers(workers.NewSyncWorker(services.SyncJob, cfg.Workers.SyncInterval))
	bg.Start(ctx)
	defer bg.Stop()

	router := handler.NewHandler(services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log).Init()

	srv, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create agent server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("agent stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
