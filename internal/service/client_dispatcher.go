// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

// Command is a request to the session. The set of kinds is closed; every
// kind is declared in this file.
type Command interface {
	command()
}

type (
	LoginCommand struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	UnlockCommand struct {
		Password string `json:"password"`
	}
	LogoutCommand          struct{}
	SyncCommand            struct{}
	StatusCommand          struct{}
	ListCredentialsCommand struct{}
	SearchCommand          struct {
		Query string `json:"query"`
	}
	FindByDestinationCommand struct {
		URL string `json:"url"`
	}
	FindOneTimeCodeCommand struct {
		URL string `json:"url"`
	}
	GetOneTimeCodeForDestinationCommand struct {
		URL string `json:"url"`
	}
	GetOneTimeCodeCommand struct {
		CredentialID int64 `json:"credentialId"`
	}
	AddCredentialCommand struct {
		Credential models.NewCredential `json:"credential"`
	}
	SetAPIURLCommand struct {
		APIURL string `json:"apiUrl"`
	}
)

func (LoginCommand) command()                        {}
func (UnlockCommand) command()                       {}
func (LogoutCommand) command()                       {}
func (SyncCommand) command()                         {}
func (StatusCommand) command()                       {}
func (ListCredentialsCommand) command()              {}
func (SearchCommand) command()                       {}
func (FindByDestinationCommand) command()            {}
func (FindOneTimeCodeCommand) command()              {}
func (GetOneTimeCodeCommand) command()               {}
func (GetOneTimeCodeForDestinationCommand) command() {}
func (AddCredentialCommand) command()                {}
func (SetAPIURLCommand) command()                    {}

// Message names accepted by ParseCommand.
const (
	MessageLogin                = "login"
	MessageUnlock               = "unlock"
	MessageIsKeySet             = "is_key_set"
	MessageGetSessionStatus     = "get_session_status"
	MessageGetCachedCredentials = "get_cached_credentials"
	MessageLogout               = "logout"
	MessageGetCredentialsForURL = "get_credentials_for_url"
	MessageGetMFAForURL         = "get_mfa_for_url"
	MessageGetTOTP              = "get_totp"
	MessageSyncNow              = "sync_now"
	MessageAddCredential        = "add_credential"
	MessageSearch               = "search"
	MessageSetAPIURL            = "set_api_url"
)

// ParseCommand decodes the payload of a named message. raw is the whole
// message object; unknown keys are ignored.
func ParseCommand(message string, raw json.RawMessage) (Command, error) {
	var cmd Command

	switch strings.TrimSpace(message) {
	case MessageLogin:
		cmd = &LoginCommand{}
	case MessageUnlock:
		cmd = &UnlockCommand{}
	case MessageIsKeySet, MessageGetSessionStatus:
		return StatusCommand{}, nil
	case MessageGetCachedCredentials:
		return ListCredentialsCommand{}, nil
	case MessageLogout:
		return LogoutCommand{}, nil
	case MessageGetCredentialsForURL:
		cmd = &FindByDestinationCommand{}
	case MessageGetMFAForURL:
		cmd = &GetOneTimeCodeForDestinationCommand{}
	case MessageGetTOTP:
		cmd = &GetOneTimeCodeCommand{}
	case MessageSyncNow:
		return SyncCommand{}, nil
	case MessageAddCredential:
		cmd = &AddCredentialCommand{}
	case MessageSearch:
		cmd = &SearchCommand{}
	case MessageSetAPIURL:
		cmd = &SetAPIURLCommand{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, message)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cmd); err != nil {
			return nil, fmt.Errorf("%w: decode %s payload: %w", ErrInvalidInput, message, err)
		}
	}

	return deref(cmd), nil
}

func deref(cmd Command) Command {
	switch c := cmd.(type) {
	case *LoginCommand:
		return *c
	case *UnlockCommand:
		return *c
	case *FindByDestinationCommand:
		return *c
	case *FindOneTimeCodeCommand:
		return *c
	case *GetOneTimeCodeForDestinationCommand:
		return *c
	case *GetOneTimeCodeCommand:
		return *c
	case *AddCredentialCommand:
		return *c
	case *SearchCommand:
		return *c
	case *SetAPIURLCommand:
		return *c
	default:
		return cmd
	}
}

// Dispatcher is the single entry point for UIs. It never returns an error:
// failures are reported in the Response.
type Dispatcher struct {
	session ClientSessionService
	query   ClientQueryService
	logger  *logger.Logger
}

// NewDispatcher creates a Dispatcher over the session and query services.
func NewDispatcher(session ClientSessionService, query ClientQueryService, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{session: session, query: query, logger: logger}
}

// Dispatch runs cmd. A trace id already in ctx is reused, otherwise a new
// one is generated; it is attached to the logger and to outgoing requests.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) models.Response {
	traceID, ok := utils.GetTraceIDFromContext(ctx)
	if !ok {
		traceID = utils.NewTraceID()
		ctx = utils.WithTraceID(ctx, traceID)
	}
	log := d.logger.WithTraceID(traceID)
	ctx = log.WithContext(ctx)

	log.Debug().Str("func", "Dispatcher.Dispatch").Str("command", fmt.Sprintf("%T", cmd)).Msg("dispatching command")

	resp, err := d.dispatch(ctx, cmd)
	if err != nil {
		log.Info().Err(err).Str("func", "Dispatcher.Dispatch").Str("code", ErrorCode(err)).Msg("command failed")
		return models.Response{Success: false, Error: UserMessage(err), Code: ErrorCode(err)}
	}

	resp.Success = true
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd Command) (models.Response, error) {
	switch c := cmd.(type) {
	case LoginCommand:
		mode, err := d.session.Login(ctx, c.Username, c.Password)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{Mode: &mode}, nil

	case UnlockCommand:
		return models.Response{}, d.session.Unlock(ctx, c.Password)

	case LogoutCommand:
		d.session.Logout(ctx)
		return models.Response{}, nil

	case SyncCommand:
		return models.Response{}, d.session.Sync(ctx)

	case StatusCommand:
		status := d.session.Status(ctx)
		return models.Response{Status: &status}, nil

	case ListCredentialsCommand:
		return models.Response{Credentials: d.query.ListCached(ctx)}, nil

	case SearchCommand:
		return models.Response{Credentials: d.query.Search(ctx, c.Query)}, nil

	case FindByDestinationCommand:
		return models.Response{Credentials: d.query.FindByDestination(ctx, c.URL)}, nil

	case FindOneTimeCodeCommand:
		credential, err := d.query.FindOneTimeCodeCredential(ctx, c.URL)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{Credential: &credential}, nil

	case GetOneTimeCodeCommand:
		code, err := d.query.GetOneTimeCode(ctx, c.CredentialID)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{TOTP: code.Code}, nil

	case GetOneTimeCodeForDestinationCommand:
		code, err := d.query.GetOneTimeCodeForDestination(ctx, c.URL)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{TOTP: code.Code}, nil

	case AddCredentialCommand:
		credential, err := d.query.AddCredential(ctx, c.Credential)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{Credential: &credential}, nil

	case SetAPIURLCommand:
		return models.Response{}, d.session.SetAPIURL(ctx, c.APIURL)

	default:
		return models.Response{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}
