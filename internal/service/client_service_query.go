package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/adapter"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/matcher"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

type clientQueryService struct {
	session   ClientSessionService
	storage   store.VaultStorage
	remote    adapter.RemoteClient
	validator validators.Validator
	logger    *logger.Logger
}

// NewClientQueryService builds the read side over session's cache.
func NewClientQueryService(
	session ClientSessionService,
	storage store.VaultStorage,
	remote adapter.RemoteClient,
	validator validators.Validator,
	logger *logger.Logger,
) ClientQueryService {
	return &clientQueryService{
		session:   session,
		storage:   storage,
		remote:    remote,
		validator: validator,
		logger:    logger,
	}
}

func (q *clientQueryService) FindByDestination(_ context.Context, destination string) []models.Credential {
	credentials, _ := q.session.Snapshot()
	return matcher.Filter(credentials, destination)
}

func (q *clientQueryService) FindOneTimeCodeCredential(_ context.Context, destination string) (models.Credential, error) {
	credentials, unlocked := q.session.Snapshot()
	if !unlocked {
		return models.Credential{}, ErrVaultLocked
	}

	for _, c := range matcher.Filter(credentials, destination) {
		if c.HasMFA {
			return c, nil
		}
	}

	return models.Credential{}, ErrNoMfaMatch
}

func (q *clientQueryService) GetOneTimeCode(ctx context.Context, credentialID int64) (models.OneTimeCode, error) {
	token, err := q.token(ctx)
	if err != nil {
		return models.OneTimeCode{}, err
	}

	code, err := q.remote.FetchOneTimeCode(ctx, token, credentialID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "clientQueryService.GetOneTimeCode").Int64("credential_id", credentialID).Msg("cannot fetch one-time code")
		return models.OneTimeCode{}, mapRemoteError(err)
	}

	return code, nil
}

func (q *clientQueryService) GetOneTimeCodeForDestination(ctx context.Context, destination string) (models.OneTimeCode, error) {
	credential, err := q.FindOneTimeCodeCredential(ctx, destination)
	if err != nil {
		return models.OneTimeCode{}, err
	}

	return q.GetOneTimeCode(ctx, credential.ID)
}

func (q *clientQueryService) ListCached(_ context.Context) []models.Credential {
	credentials, _ := q.session.Snapshot()
	if credentials == nil {
		return []models.Credential{}
	}
	return credentials
}

func (q *clientQueryService) Search(_ context.Context, query string) []models.Credential {
	credentials, _ := q.session.Snapshot()

	found := make([]models.Credential, 0, len(credentials))
	for _, c := range credentials {
		if c.MatchesQuery(query) {
			found = append(found, c)
		}
	}
	return found
}

// AddCredential implements [ClientQueryService]. The new entry reaches the
// cache through the follow-up Sync; a failed Sync does not fail the call.
func (q *clientQueryService) AddCredential(ctx context.Context, credential models.NewCredential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	if err := q.validator.Validate(ctx, credential); err != nil {
		return models.Credential{}, validationFailure(err)
	}

	token, err := q.token(ctx)
	if err != nil {
		return models.Credential{}, err
	}

	created, err := q.remote.CreateCredential(ctx, token, credential)
	if err != nil {
		log.Err(err).Str("func", "clientQueryService.AddCredential").Msg("cannot create credential")
		return models.Credential{}, mapRemoteError(err)
	}

	if err = q.session.Sync(ctx); err != nil {
		log.Warn().Err(err).Str("func", "clientQueryService.AddCredential").Int64("credential_id", created.ID).Msg("credential created but sync failed")
	}

	return created, nil
}

func (q *clientQueryService) token(ctx context.Context) (models.AuthToken, error) {
	token, err := q.storage.LoadToken(ctx)
	if errors.Is(err, store.ErrTokenNotFound) {
		return models.AuthToken{}, ErrNotAuthenticated
	}
	if err != nil {
		return models.AuthToken{}, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}
