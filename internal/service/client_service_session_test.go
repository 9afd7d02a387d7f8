// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"maps"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/app"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/mock"
	"github.com/MKhiriev/go-pass-vault/internal/notify"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// cheap Argon2id cost so tests stay fast
var testKDF = config.ClientKDF{Time: 1, Memory: 64, Threads: 1}

const (
	testUser     = "alice"
	testPassword = "correct horse"
)

var (
	testToken = models.AuthToken{Access: "opaque-token"}

	remoteSetV1 = []models.Credential{
		{ID: 1, WebsiteURL: "https://github.com", Username: "octo", Password: "pw-1"},
		{ID: 2, WebsiteURL: "example.com", Username: "bob", Password: "pw-2", HasMFA: true},
	}
	remoteSetV2 = []models.Credential{
		{ID: 1, WebsiteURL: "https://github.com", Username: "octo", Password: "pw-1-rotated"},
		{ID: 2, WebsiteURL: "example.com", Username: "bob", Password: "pw-2", HasMFA: true},
		{ID: 3, WebsiteURL: "https://news.ycombinator.com", Username: "pg", Password: "pw-3"},
	}
)

// memKV is an in-memory store.KeyValueStore with per-key failure injection.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet map[string]error
	failSet map[string]error
}

func newMemKV() *memKV {
	return &memKV{
		data:    make(map[string][]byte),
		failGet: make(map[string]error),
		failSet: make(map[string]error),
	}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failGet[key]; err != nil {
		return nil, err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failSet[key]; err != nil {
		return err
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Close() error { return nil }

func (m *memKV) raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[key]...)
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *memKV) setFailure(key string, get, set error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet[key] = get
	m.failSet[key] = set
}

func (m *memKV) snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

type sessionFixture struct {
	svc         *clientSessionService
	remote      *mock.MockRemoteClient
	kv          *memKV
	storage     store.VaultStorage
	engine      crypto.Engine
	broadcaster *notify.Broadcaster
}

func newSessionFixture(t *testing.T, limits config.ClientLimits) *sessionFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)
	kv := newMemKV()
	storage := store.NewVaultStorage(kv, logger.Nop())
	engine := crypto.NewEngine(testKDF)
	broadcaster := notify.NewBroadcaster()

	svc := NewClientSessionService(engine, storage, remote, validators.NewCredentialValidator(), broadcaster, limits, logger.Nop()).(*clientSessionService)
	t.Cleanup(svc.Close)

	return &sessionFixture{
		svc:         svc,
		remote:      remote,
		kv:          kv,
		storage:     storage,
		engine:      engine,
		broadcaster: broadcaster,
	}
}

func unlimited() config.ClientLimits {
	return config.ClientLimits{}
}

// seedOnline performs a successful online login that leaves the session
// unlocked with creds cached and a vault on disk.
func (f *sessionFixture) seedOnline(t *testing.T, creds []models.Credential) {
	t.Helper()

	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(testToken, nil)
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(creds, nil)

	mode, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.NoError(t, err)
	require.Equal(t, models.LoginModeOnline, mode)
}

func (f *sessionFixture) currentKey() *crypto.SessionKey {
	if s := f.svc.session.Load(); s != nil {
		return s.key
	}
	return nil
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_Online(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	events, cancel := f.broadcaster.Subscribe(4)
	defer cancel()

	f.seedOnline(t, remoteSetV1)

	creds, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
	assert.Equal(t, remoteSetV1, creds)

	token, err := f.storage.LoadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	vault, err := f.storage.LoadVault(context.Background())
	require.NoError(t, err)
	require.NotNil(t, vault.KDF)
	assert.Equal(t, models.KDFArgon2id, vault.KDF.Algorithm)

	select {
	case ev := <-events:
		assert.False(t, ev.Error)
		assert.Equal(t, app.MsgSyncComplete, ev.Status)
	default:
		t.Fatal("expected a sync notification after online login")
	}
}

func TestLogin_OnlineReplacesPreviousKey(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	first := f.currentKey()

	f.seedOnline(t, remoteSetV2)

	assert.True(t, first.Destroyed())
	assert.False(t, f.currentKey().Destroyed())

	creds, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV2, creds)
}

func TestLogin_OfflineFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unreachable", err: adapter.ErrUnreachable},
		{name: "unauthorized", err: adapter.ErrUnauthorized},
		{name: "server error", err: adapter.ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t, unlimited())
			f.seedOnline(t, remoteSetV1)
			f.svc.Logout(context.Background())

			f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(models.AuthToken{}, tt.err)

			mode, err := f.svc.Login(context.Background(), testUser, testPassword)
			require.NoError(t, err)
			assert.Equal(t, models.LoginModeOffline, mode)

			creds, unlocked := f.svc.Snapshot()
			assert.True(t, unlocked)
			assert.Equal(t, remoteSetV1, creds)
		})
	}
}

func TestLogin_OfflineWrongPassword(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	vaultBefore := f.kv.raw(store.KeyEncryptedVault)

	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, "wrong").Return(models.AuthToken{}, adapter.ErrUnreachable)

	_, err := f.svc.Login(context.Background(), testUser, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked, "a failed unlock leaves the session locked")
	assert.Equal(t, vaultBefore, f.kv.raw(store.KeyEncryptedVault))
}

func TestLogin_NoLocalVault(t *testing.T) {
	f := newSessionFixture(t, unlimited())

	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(models.AuthToken{}, adapter.ErrUnreachable)

	_, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.ErrorIs(t, err, ErrNoLocalVault)

	f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress).AnyTimes()
	assert.Equal(t, models.SessionLocked, f.svc.Status(context.Background()).State)
}

func TestLogin_FetchFailsAfterToken_KeepsToken(t *testing.T) {
	f := newSessionFixture(t, unlimited())

	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(testToken, nil)
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(nil, adapter.ErrUnreachable)

	_, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.ErrorIs(t, err, ErrNoLocalVault)

	assert.True(t, f.kv.has(store.KeyToken), "token persisted before the fetch stays")
	assert.False(t, f.kv.has(store.KeyEncryptedVault))
}

func TestLogin_RejectedRemoteSet_FallsBackOffline(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	vaultBefore := f.kv.raw(store.KeyEncryptedVault)

	duplicated := []models.Credential{{ID: 7, WebsiteURL: "a.com"}, {ID: 7, WebsiteURL: "b.com"}}
	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(testToken, nil)
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(duplicated, nil)

	mode, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.NoError(t, err)
	assert.Equal(t, models.LoginModeOffline, mode)

	creds, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV1, creds)
	assert.Equal(t, vaultBefore, f.kv.raw(store.KeyEncryptedVault))
}

func TestLogin_SaveVaultFails_FallsBackOffline(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())

	f.kv.setFailure(store.KeyEncryptedVault, nil, assert.AnError)
	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(testToken, nil)
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(remoteSetV2, nil)

	mode, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.NoError(t, err)
	assert.Equal(t, models.LoginModeOffline, mode)

	creds, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV1, creds, "cache is never ahead of the vault")
}

// ── Unlock ───────────────────────────────────────────────────────────────────

func TestUnlock_Success_StartsBackgroundSync(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())
	require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

	synced := make(chan struct{})
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).DoAndReturn(
		func(context.Context, models.AuthToken) ([]models.Credential, error) {
			defer close(synced)
			return remoteSetV2, nil
		})

	require.NoError(t, f.svc.Unlock(context.Background(), testPassword))

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("background sync did not run")
	}
	f.svc.background.Wait()

	creds, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
	assert.Equal(t, remoteSetV2, creds)
}

func TestUnlock_BackgroundSyncFailure_DoesNotAffectUnlock(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())
	require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(nil, adapter.ErrUnreachable)

	require.NoError(t, f.svc.Unlock(context.Background(), testPassword))
	f.svc.background.Wait()

	creds, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
	assert.Equal(t, remoteSetV1, creds)
}

func TestUnlock_CallerCancelDoesNotAbortBackgroundSync(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())
	require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

	var ctxErr atomic.Value
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).DoAndReturn(
		func(ctx context.Context, _ models.AuthToken) ([]models.Credential, error) {
			time.Sleep(20 * time.Millisecond)
			ctxErr.Store(ctx.Err() == nil)
			return remoteSetV2, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.svc.Unlock(ctx, testPassword))
	cancel()
	f.svc.background.Wait()

	assert.Equal(t, true, ctxErr.Load())
}

func TestUnlock_WrongPassword_LocksUnlockedSession(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	key := f.currentKey()

	err := f.svc.Unlock(context.Background(), "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked)
	assert.True(t, key.Destroyed(), "previous key is wiped")
}

func TestUnlock_CorruptedVault(t *testing.T) {
	tests := []struct {
		name  string
		vault []byte
	}{
		{name: "not json", vault: []byte("garbage")},
		{name: "missing data", vault: []byte(`{"version":1,"iv":"AAAAAAAAAAAAAAAA"}`)},
		{name: "tampered ciphertext", vault: []byte(`{"version":1,"iv":"AAAAAAAAAAAAAAAA","data":"AAAAAAAAAAAAAAAAAAAAAAAA"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t, unlimited())
			require.NoError(t, f.kv.Set(context.Background(), store.KeyEncryptedVault, tt.vault))

			err := f.svc.Unlock(context.Background(), testPassword)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, app.MsgInvalidPassword, UserMessage(err))

			_, unlocked := f.svc.Snapshot()
			assert.False(t, unlocked)
		})
	}
}

func TestUnlock_NoLocalVault_PreservesState(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	require.NoError(t, f.kv.Remove(context.Background(), store.KeyEncryptedVault))

	err := f.svc.Unlock(context.Background(), testPassword)
	require.ErrorIs(t, err, ErrNoLocalVault)

	_, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
}

func TestUnlock_StorageError(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.kv.setFailure(store.KeyEncryptedVault, assert.AnError, nil)

	err := f.svc.Unlock(context.Background(), testPassword)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "internal", ErrorCode(err))
}

func TestUnlock_Throttled(t *testing.T) {
	f := newSessionFixture(t, config.ClientLimits{UnlockAttemptsPerMinute: 1, UnlockBurst: 2})
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())

	require.ErrorIs(t, f.svc.Unlock(context.Background(), "wrong-1"), ErrInvalidCredentials)
	require.ErrorIs(t, f.svc.Unlock(context.Background(), "wrong-2"), ErrInvalidCredentials)

	err := f.svc.Unlock(context.Background(), testPassword)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	_, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked)
}

func TestUnlock_ThrottleCoversOfflineLogin(t *testing.T) {
	f := newSessionFixture(t, config.ClientLimits{UnlockAttemptsPerMinute: 1, UnlockBurst: 1})
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())

	require.ErrorIs(t, f.svc.Unlock(context.Background(), "wrong"), ErrInvalidCredentials)

	f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(models.AuthToken{}, adapter.ErrUnreachable)
	_, err := f.svc.Login(context.Background(), testUser, testPassword)
	require.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestUnlock_MigratesLegacyVault(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	ctx := context.Background()

	legacyKey, err := f.engine.DeriveKey(testPassword, models.KDFParams{})
	require.NoError(t, err)
	legacy, err := f.engine.SealVault(legacyKey, models.KDFParams{}, remoteSetV1)
	require.NoError(t, err)
	require.Nil(t, legacy.KDF)
	require.NoError(t, f.storage.SaveVault(ctx, legacy))

	require.NoError(t, f.svc.Unlock(ctx, testPassword))
	f.svc.background.Wait()

	migrated, err := f.storage.LoadVault(ctx)
	require.NoError(t, err)
	require.NotNil(t, migrated.KDF)
	assert.Equal(t, models.KDFArgon2id, migrated.KDF.Algorithm)
	assert.NotEmpty(t, migrated.KDF.Salt)

	f.svc.Logout(ctx)
	require.NoError(t, f.svc.Unlock(ctx, testPassword))
	f.svc.background.Wait()

	creds, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
	assert.Equal(t, remoteSetV1, creds)
}

func TestUnlock_LegacyMigrationFailure_KeepsSession(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	ctx := context.Background()

	legacyKey, err := f.engine.DeriveKey(testPassword, models.KDFParams{})
	require.NoError(t, err)
	legacy, err := f.engine.SealVault(legacyKey, models.KDFParams{}, remoteSetV1)
	require.NoError(t, err)
	require.NoError(t, f.storage.SaveVault(ctx, legacy))
	f.kv.setFailure(store.KeyEncryptedVault, nil, assert.AnError)

	require.NoError(t, f.svc.Unlock(ctx, testPassword))
	f.svc.background.Wait()

	creds, unlocked := f.svc.Snapshot()
	assert.True(t, unlocked)
	assert.Equal(t, remoteSetV1, creds)

	stored, err := f.storage.LoadVault(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored.KDF, "legacy vault left in place")
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestLogout_ClearsSessionKeepsVault(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	key := f.currentKey()
	vaultBefore := f.kv.raw(store.KeyEncryptedVault)

	f.svc.Logout(context.Background())

	creds, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked)
	assert.Nil(t, creds)
	assert.True(t, key.Destroyed())
	assert.False(t, f.kv.has(store.KeyToken))
	assert.Equal(t, vaultBefore, f.kv.raw(store.KeyEncryptedVault))
}

func TestLogout_WhenLocked_NoPanic(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	assert.NotPanics(t, func() { f.svc.Logout(context.Background()) })
}

// ── Sync ─────────────────────────────────────────────────────────────────────

func TestSync_NotReady(t *testing.T) {
	t.Run("locked", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

		require.ErrorIs(t, f.svc.Sync(context.Background()), ErrNotReady)
		_, notified := f.broadcaster.Last()
		assert.False(t, notified)
	})

	t.Run("no token", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.seedOnline(t, remoteSetV1)
		require.NoError(t, f.storage.RemoveToken(context.Background()))

		require.ErrorIs(t, f.svc.Sync(context.Background()), ErrNotReady)
	})
}

func TestSync_ReplacesCacheAndVault(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	key := f.currentKey()

	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(remoteSetV2, nil)

	require.NoError(t, f.svc.Sync(context.Background()))

	creds, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV2, creds)
	assert.Same(t, key, f.currentKey(), "sync keeps the session key")
	assert.False(t, key.Destroyed())

	vault, err := f.storage.LoadVault(context.Background())
	require.NoError(t, err)
	opened, err := f.engine.OpenVault(key, vault)
	require.NoError(t, err)
	assert.Equal(t, remoteSetV2, opened)

	last, ok := f.broadcaster.Last()
	require.True(t, ok)
	assert.False(t, last.Error)

	f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress).AnyTimes()
	assert.NotNil(t, f.svc.Status(context.Background()).LastSync)
}

func TestSync_Failure_KeepsPriorState(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *sessionFixture)
	}{
		{
			name: "fetch unreachable",
			prepare: func(f *sessionFixture) {
				f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(nil, adapter.ErrUnreachable)
			},
		},
		{
			name: "fetch unauthorized",
			prepare: func(f *sessionFixture) {
				f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(nil, adapter.ErrUnauthorized)
			},
		},
		{
			name: "rejected set",
			prepare: func(f *sessionFixture) {
				f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return([]models.Credential{{ID: 0}}, nil)
			},
		},
		{
			name: "vault write fails",
			prepare: func(f *sessionFixture) {
				f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(remoteSetV2, nil)
				f.kv.setFailure(store.KeyEncryptedVault, nil, assert.AnError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(t, unlimited())
			f.seedOnline(t, remoteSetV1)
			key := f.currentKey()
			before := f.kv.snapshot()

			tt.prepare(f)

			err := f.svc.Sync(context.Background())
			require.ErrorIs(t, err, ErrSyncFailed)

			creds, unlocked := f.svc.Snapshot()
			assert.True(t, unlocked)
			assert.Equal(t, remoteSetV1, creds)
			assert.Equal(t, before, f.kv.snapshot())
			assert.False(t, key.Destroyed(), "sync failure never clears the key")

			last, ok := f.broadcaster.Last()
			require.True(t, ok)
			assert.True(t, last.Error)
			assert.Contains(t, last.Status, app.MsgSyncFailed)
		})
	}
}

func TestSync_ConcurrentCallsShareOneRun(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)

	release := make(chan struct{})
	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).DoAndReturn(
		func(context.Context, models.AuthToken) ([]models.Credential, error) {
			<-release
			return remoteSetV2, nil
		}).Times(1)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.svc.Sync(context.Background())
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestSync_ReadersSeeWholeSnapshots(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)

	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(remoteSetV2, nil).AnyTimes()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 20 {
			_ = f.svc.Sync(context.Background())
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			creds, _ := f.svc.Snapshot()
			if len(creds) != len(remoteSetV1) && len(creds) != len(remoteSetV2) {
				t.Fatalf("observed partial cache of %d entries", len(creds))
			}
		}
	}
}

// ── Status / Snapshot ────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	t.Run("fresh install", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress)

		status := f.svc.Status(context.Background())
		assert.Equal(t, models.SessionLocked, status.State)
		assert.False(t, status.LoggedIn)
		assert.False(t, status.Unlocked)
		assert.False(t, status.HasVault)
		assert.Zero(t, status.Credentials)
		assert.Equal(t, config.DefaultAPIAddress, status.APIURL)
		assert.Nil(t, status.TokenExpiresAt)
		assert.Nil(t, status.LastSync)
	})

	t.Run("unlocked with jwt", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		jwtToken := models.AuthToken{Access: signed}

		f.remote.EXPECT().ObtainToken(gomock.Any(), testUser, testPassword).Return(jwtToken, nil)
		f.remote.EXPECT().FetchCredentials(gomock.Any(), jwtToken).Return(remoteSetV1, nil)
		f.remote.EXPECT().BaseURL().Return("https://vault.example.com/api")
		_, err = f.svc.Login(context.Background(), testUser, testPassword)
		require.NoError(t, err)

		status := f.svc.Status(context.Background())
		assert.Equal(t, models.SessionUnlocked, status.State)
		assert.True(t, status.LoggedIn)
		assert.True(t, status.Unlocked)
		assert.True(t, status.HasVault)
		assert.Equal(t, len(remoteSetV1), status.Credentials)
		require.NotNil(t, status.TokenExpiresAt)
		assert.True(t, exp.Equal(*status.TokenExpiresAt))
		require.NotNil(t, status.LastSync)
	})

	t.Run("unlocking", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.remote.EXPECT().BaseURL().Return("")

		f.svc.unlocking.Store(true)
		defer f.svc.unlocking.Store(false)

		assert.Equal(t, models.SessionUnlocking, f.svc.Status(context.Background()).State)
	})
}

func TestStatus_JSONShape(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.remote.EXPECT().BaseURL().Return("http://127.0.0.1:8000/api")

	raw, err := json.Marshal(f.svc.Status(context.Background()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"LOCKED","is_logged_in":false,"is_unlocked":false,"has_vault":false,"credentials":0,"api_url":"http://127.0.0.1:8000/api"}`, string(raw))
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)

	creds, _ := f.svc.Snapshot()
	creds[0].Password = "mutated"

	again, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV1[0].Password, again[0].Password)
}

// ── SetAPIURL / Restore ──────────────────────────────────────────────────────

func TestSetAPIURL(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		gomock.InOrder(
			f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress),
			f.remote.EXPECT().SetBaseURL("https://vault.example.com/api/").Return(nil),
		)
		f.remote.EXPECT().BaseURL().Return("https://vault.example.com/api").AnyTimes()

		require.NoError(t, f.svc.SetAPIURL(context.Background(), "https://vault.example.com/api/"))

		stored, err := f.storage.LoadAPIURL(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "https://vault.example.com/api", stored)
	})

	t.Run("invalid", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress)
		f.remote.EXPECT().SetBaseURL("ftp://nope").Return(adapter.ErrInvalidBaseURL)

		err := f.svc.SetAPIURL(context.Background(), "ftp://nope")
		require.ErrorIs(t, err, ErrInvalidAPIURL)
		require.ErrorIs(t, err, adapter.ErrInvalidBaseURL)
		assert.False(t, f.kv.has(store.KeyAPIURL))
	})

	t.Run("persist fails restores previous", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.kv.setFailure(store.KeyAPIURL, nil, assert.AnError)

		gomock.InOrder(
			f.remote.EXPECT().BaseURL().Return(config.DefaultAPIAddress),
			f.remote.EXPECT().SetBaseURL("https://vault.example.com/api").Return(nil),
			f.remote.EXPECT().BaseURL().Return("https://vault.example.com/api"),
			f.remote.EXPECT().SetBaseURL(config.DefaultAPIAddress).Return(nil),
		)

		err := f.svc.SetAPIURL(context.Background(), "https://vault.example.com/api")
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestRestore(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		require.NoError(t, f.svc.Restore(context.Background()))
	})

	t.Run("saved url applied", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		require.NoError(t, f.storage.SaveAPIURL(context.Background(), "https://vault.example.com/api"))
		f.remote.EXPECT().SetBaseURL("https://vault.example.com/api").Return(nil)

		require.NoError(t, f.svc.Restore(context.Background()))
	})

	t.Run("unusable saved url ignored", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		require.NoError(t, f.storage.SaveAPIURL(context.Background(), "mailto:x"))
		f.remote.EXPECT().SetBaseURL("mailto:x").Return(adapter.ErrInvalidBaseURL)

		require.NoError(t, f.svc.Restore(context.Background()))
	})

	t.Run("storage error", func(t *testing.T) {
		f := newSessionFixture(t, unlimited())
		f.kv.setFailure(store.KeyAPIURL, assert.AnError, nil)

		require.ErrorIs(t, f.svc.Restore(context.Background()), assert.AnError)
	})
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestClose_LocksSession(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	key := f.currentKey()

	f.svc.Close()

	_, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked)
	assert.True(t, key.Destroyed())
}

func TestClose_UnlockAfterCloseStartsNoSync(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())
	require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

	f.svc.Close()

	// no FetchCredentials expectation: a background sync would fail the test
	require.NoError(t, f.svc.Unlock(context.Background(), testPassword))
	f.svc.background.Wait()

	creds, _ := f.svc.Snapshot()
	assert.Equal(t, remoteSetV1, creds)
}

func TestClose_ConcurrentWithUnlock(t *testing.T) {
	f := newSessionFixture(t, unlimited())
	f.seedOnline(t, remoteSetV1)
	f.svc.Logout(context.Background())
	require.NoError(t, f.storage.SaveToken(context.Background(), testToken))

	f.remote.EXPECT().FetchCredentials(gomock.Any(), testToken).Return(remoteSetV1, nil).AnyTimes()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.svc.Unlock(context.Background(), testPassword)
		}()
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		f.svc.Close()
	}()

	wg.Wait()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	f.svc.Close()
	_, unlocked := f.svc.Snapshot()
	assert.False(t, unlocked)
}

func TestNewUnlockLimiter(t *testing.T) {
	assert.Nil(t, newUnlockLimiter(config.ClientLimits{}))
	assert.Nil(t, newUnlockLimiter(config.ClientLimits{UnlockAttemptsPerMinute: -1, UnlockBurst: 3}))

	l := newUnlockLimiter(config.ClientLimits{UnlockAttemptsPerMinute: 6})
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}
