// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/notify"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// sessionContext is the unlocked state. It is immutable once published:
// every change publishes a new value.
type sessionContext struct {
	key   *crypto.SessionKey
	kdf   models.KDFParams
	cache []models.Credential
}

type clientSessionService struct {
	engine    crypto.Engine
	storage   store.VaultStorage
	remote    adapter.RemoteClient
	validator validators.Validator
	notifier  notify.Notifier
	limiter   *rate.Limiter

	// opMu serializes every mutating operation
	opMu      sync.Mutex
	session   atomic.Pointer[sessionContext]
	unlocking atomic.Bool
	lastSync  atomic.Pointer[models.SyncStatus]

	syncGroup  singleflight.Group
	background sync.WaitGroup
	// closed is guarded by opMu; no background work starts once it is set
	closed bool

	now    func() time.Time
	logger *logger.Logger
}

// NewClientSessionService builds the session state machine. The session
// starts LOCKED.
func NewClientSessionService(
	engine crypto.Engine,
	storage store.VaultStorage,
	remote adapter.RemoteClient,
	validator validators.Validator,
	notifier notify.Notifier,
	limits config.ClientLimits,
	logger *logger.Logger,
) ClientSessionService {
	return &clientSessionService{
		engine:    engine,
		storage:   storage,
		remote:    remote,
		validator: validator,
		notifier:  notifier,
		limiter:   newUnlockLimiter(limits),
		now:       time.Now,
		logger:    logger,
	}
}

func newUnlockLimiter(limits config.ClientLimits) *rate.Limiter {
	if limits.UnlockAttemptsPerMinute <= 0 {
		return nil
	}
	burst := limits.UnlockBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(limits.UnlockAttemptsPerMinute)/60), burst)
}

// Login implements [ClientSessionService].
//
// Online path, strictly in this order: obtain token, persist token, derive
// key, fetch remote set, validate it, write the vault, swap the cache. Any
// failure along it falls through to the offline path; a token that was
// already persisted stays.
func (s *clientSessionService) Login(ctx context.Context, username, password string) (models.LoginMode, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.unlocking.Store(true)
	defer s.unlocking.Store(false)

	log := logger.FromContext(ctx)

	err := s.loginOnline(ctx, username, password)
	if err == nil {
		log.Info().Str("func", "clientSessionService.Login").Msg("online login succeeded")
		return models.LoginModeOnline, nil
	}
	log.Info().Err(mapLoginError(err)).Str("func", "clientSessionService.Login").Msg("online login failed, attempting offline unlock")

	if err = s.unlockOffline(ctx, password); err != nil {
		return 0, err
	}

	log.Info().Str("func", "clientSessionService.Login").Msg("offline login succeeded")
	return models.LoginModeOffline, nil
}

func (s *clientSessionService) loginOnline(ctx context.Context, username, password string) error {
	token, err := s.remote.ObtainToken(ctx, username, password)
	if err != nil {
		return fmt.Errorf("obtain token: %w", err)
	}

	if err = s.storage.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	params, err := s.engine.NewKDFParams()
	if err != nil {
		return fmt.Errorf("kdf params: %w", err)
	}
	key, err := s.engine.DeriveKey(password, params)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	next, err := s.replaceReplica(ctx, token, key, params)
	if err != nil {
		key.Destroy()
		return err
	}

	s.publish(next)
	s.recordSync(models.SyncStatus{Status: app.MsgSyncComplete})
	return nil
}

// replaceReplica fetches the remote set and writes it as the new vault
// under key. Nothing is published; the caller swaps the cache.
func (s *clientSessionService) replaceReplica(
	ctx context.Context,
	token models.AuthToken,
	key *crypto.SessionKey,
	params models.KDFParams,
) (*sessionContext, error) {
	credentials, err := s.remote.FetchCredentials(ctx, token)
	if err != nil {
		return nil, syncFailure("fetch credentials", err)
	}

	if err = s.validator.Validate(ctx, credentials); err != nil {
		return nil, syncFailure("validate credentials", err)
	}

	vault, err := s.engine.SealVault(key, params, credentials)
	if err != nil {
		return nil, syncFailure("seal vault", err)
	}

	if err = s.storage.SaveVault(ctx, vault); err != nil {
		return nil, syncFailure("save vault", err)
	}

	return &sessionContext{key: key, kdf: params, cache: credentials}, nil
}

// Unlock implements [ClientSessionService].
func (s *clientSessionService) Unlock(ctx context.Context, password string) error {
	s.opMu.Lock()
	s.unlocking.Store(true)
	err := s.unlockOffline(ctx, password)
	s.unlocking.Store(false)
	startSync := err == nil && !s.closed
	if startSync {
		s.background.Add(1)
	}
	s.opMu.Unlock()

	if !startSync {
		return err
	}

	go func() {
		defer s.background.Done()

		// the caller's deadline must not cut the background sync short
		bgCtx := context.WithoutCancel(ctx)
		if err := s.Sync(bgCtx); err != nil && !errors.Is(err, ErrNotReady) {
			logger.FromContext(bgCtx).Warn().Err(err).Str("func", "clientSessionService.Unlock").Msg("background sync after unlock failed")
		}
	}()

	return nil
}

// unlockOffline opens the stored vault with password. Must hold opMu.
func (s *clientSessionService) unlockOffline(ctx context.Context, password string) error {
	log := logger.FromContext(ctx)

	vault, err := s.storage.LoadVault(ctx)
	switch {
	case errors.Is(err, store.ErrVaultNotFound):
		return ErrNoLocalVault
	case errors.Is(err, store.ErrVaultCorrupted):
		log.Warn().Err(err).Str("func", "clientSessionService.unlockOffline").Msg("stored vault is unreadable")
		s.lock()
		return ErrInvalidCredentials
	case err != nil:
		return fmt.Errorf("load vault: %w", err)
	}

	if s.limiter != nil && !s.limiter.Allow() {
		return ErrTooManyAttempts
	}

	params := vault.KDFParams()
	key, err := s.engine.DeriveKey(password, params)
	if err != nil {
		log.Warn().Err(err).Str("func", "clientSessionService.unlockOffline").Msg("stored vault has unusable kdf params")
		s.lock()
		return ErrInvalidCredentials
	}

	credentials, err := s.engine.OpenVault(key, vault)
	if err != nil {
		key.Destroy()
		s.lock()
		return ErrInvalidCredentials
	}

	s.publish(&sessionContext{key: key, kdf: params, cache: credentials})

	if params.IsLegacy() {
		s.migrateLegacyVault(ctx, password, credentials)
	}

	return nil
}

// migrateLegacyVault re-seals a vault opened with the unsalted SHA-256 key
// under Argon2id. Failure keeps the legacy vault and session as they are.
// Must hold opMu.
func (s *clientSessionService) migrateLegacyVault(ctx context.Context, password string, credentials []models.Credential) {
	log := logger.FromContext(ctx)

	params, err := s.engine.NewKDFParams()
	if err != nil {
		log.Err(err).Str("func", "clientSessionService.migrateLegacyVault").Msg("cannot create kdf params")
		return
	}
	key, err := s.engine.DeriveKey(password, params)
	if err != nil {
		log.Err(err).Str("func", "clientSessionService.migrateLegacyVault").Msg("cannot derive key")
		return
	}

	vault, err := s.engine.SealVault(key, params, credentials)
	if err == nil {
		err = s.storage.SaveVault(ctx, vault)
	}
	if err != nil {
		key.Destroy()
		log.Err(err).Str("func", "clientSessionService.migrateLegacyVault").Msg("legacy vault migration failed")
		return
	}

	s.publish(&sessionContext{key: key, kdf: params, cache: credentials})
	log.Info().Str("func", "clientSessionService.migrateLegacyVault").Msg("legacy vault migrated to argon2id")
}

// Logout implements [ClientSessionService].
func (s *clientSessionService) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.lock()

	if err := s.storage.RemoveToken(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientSessionService.Logout").Msg("cannot remove token")
	}
}

// Sync implements [ClientSessionService].
func (s *clientSessionService) Sync(ctx context.Context) error {
	_, err, _ := s.syncGroup.Do("sync", func() (any, error) {
		return nil, s.sync(ctx)
	})
	return err
}

func (s *clientSessionService) sync(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	log := logger.FromContext(ctx)

	current := s.session.Load()
	if current == nil {
		return ErrNotReady
	}

	token, err := s.storage.LoadToken(ctx)
	if errors.Is(err, store.ErrTokenNotFound) {
		return ErrNotReady
	}
	if err != nil {
		err = syncFailure("load token", err)
		s.recordSync(models.SyncStatus{Status: UserMessage(err), Error: true})
		return err
	}

	next, err := s.replaceReplica(ctx, token, current.key, current.kdf)
	if err != nil {
		log.Warn().Err(err).Str("func", "clientSessionService.sync").Msg("sync failed, keeping previous replica")
		s.recordSync(models.SyncStatus{Status: UserMessage(err), Error: true})
		return err
	}

	s.publish(next)
	s.recordSync(models.SyncStatus{Status: app.MsgSyncComplete})
	log.Info().Str("func", "clientSessionService.sync").Int("credentials", len(next.cache)).Msg("sync complete")

	return nil
}

// Status implements [ClientSessionService].
func (s *clientSessionService) Status(ctx context.Context) models.SessionStatus {
	current := s.session.Load()

	status := models.SessionStatus{
		State:    s.state(current),
		Unlocked: current != nil,
		APIURL:   s.remote.BaseURL(),
		LastSync: s.lastSync.Load(),
	}
	if current != nil {
		status.Credentials = len(current.cache)
	}

	if token, err := s.storage.LoadToken(ctx); err == nil {
		status.LoggedIn = true
		if exp, err := token.ExpiresAt(); err == nil {
			status.TokenExpiresAt = &exp
		}
	}

	if has, err := s.storage.HasVault(ctx); err == nil {
		status.HasVault = has
	}

	return status
}

func (s *clientSessionService) state(current *sessionContext) models.SessionState {
	switch {
	case s.unlocking.Load():
		return models.SessionUnlocking
	case current != nil:
		return models.SessionUnlocked
	default:
		return models.SessionLocked
	}
}

// Snapshot implements [ClientSessionService].
func (s *clientSessionService) Snapshot() ([]models.Credential, bool) {
	current := s.session.Load()
	if current == nil {
		return nil, false
	}
	return slices.Clone(current.cache), true
}

// SetAPIURL implements [ClientSessionService].
func (s *clientSessionService) SetAPIURL(ctx context.Context, raw string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	previous := s.remote.BaseURL()
	if err := s.remote.SetBaseURL(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAPIURL, err)
	}

	if err := s.storage.SaveAPIURL(ctx, s.remote.BaseURL()); err != nil {
		_ = s.remote.SetBaseURL(previous)
		return fmt.Errorf("save api url: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "clientSessionService.SetAPIURL").Str("api_url", s.remote.BaseURL()).Msg("api url updated")
	return nil
}

// Restore implements [ClientSessionService].
func (s *clientSessionService) Restore(ctx context.Context) error {
	apiURL, err := s.storage.LoadAPIURL(ctx)
	if errors.Is(err, store.ErrAPIURLNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load api url: %w", err)
	}

	if err = s.remote.SetBaseURL(apiURL); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "clientSessionService.Restore").Msg("ignoring saved api url")
	}
	return nil
}

// Close implements [ClientSessionService].
func (s *clientSessionService) Close() {
	s.opMu.Lock()
	s.closed = true
	s.opMu.Unlock()

	s.background.Wait()

	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.lock()
}

// publish swaps in next and destroys the key it replaces, unless next
// keeps using it.
func (s *clientSessionService) publish(next *sessionContext) {
	prev := s.session.Swap(next)
	if prev != nil && prev.key != next.key {
		prev.key.Destroy()
	}
}

// lock clears the session. Must hold opMu.
func (s *clientSessionService) lock() {
	if prev := s.session.Swap(nil); prev != nil {
		prev.key.Destroy()
	}
}

func (s *clientSessionService) recordSync(status models.SyncStatus) {
	status.At = s.now()
	s.lastSync.Store(&status)
	if s.notifier != nil {
		s.notifier.Notify(status)
	}
}
