package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

type httpRemoteClient struct {
	client *utils.HTTPClient

	mu      sync.RWMutex
	baseURL string

	logger *logger.Logger
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewHTTPRemoteClient constructs an HTTP/JSON implementation of
// [RemoteClient]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and applies adapterCfg.RequestTimeout to every
// request, so a hung server is reported as [ErrUnreachable].
func NewHTTPRemoteClient(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, err
	}

	client := utils.NewHTTPClient()
	client.
		SetTimeout(adapterCfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpRemoteClient{client: client, baseURL: baseURL, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidBaseURL)
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: address must include host", ErrInvalidBaseURL)
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetBaseURL implements [RemoteClient].
func (h *httpRemoteClient) SetBaseURL(raw string) error {
	baseURL, err := normalizeBaseURL(raw)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.baseURL = baseURL
	h.mu.Unlock()

	return nil
}

// BaseURL implements [RemoteClient].
func (h *httpRemoteClient) BaseURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.baseURL
}

// ObtainToken implements [RemoteClient]. It POSTs the credentials to
// /token/ and returns the "access" field of the response.
func (h *httpRemoteClient) ObtainToken(ctx context.Context, username, password string) (models.AuthToken, error) {
	var token models.AuthToken

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(tokenRequest{Username: username, Password: password}).
		SetResult(&token).
		Post(h.endpoint("/token/"))
	if err != nil {
		return models.AuthToken{}, transportError("token", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthToken{}, err
	}
	if token.IsZero() {
		return models.AuthToken{}, fmt.Errorf("%w: token response has no access field", ErrMalformedResponse)
	}

	return token, nil
}

// FetchCredentials implements [RemoteClient].
func (h *httpRemoteClient) FetchCredentials(ctx context.Context, token models.AuthToken) ([]models.Credential, error) {
	var credentials []models.Credential

	resp, err := h.authedRequest(ctx, token).
		SetResult(&credentials).
		Get(h.endpoint("/credentials/"))
	if err != nil {
		return nil, transportError("fetch credentials", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	if credentials == nil {
		// "null" or an unexpected content type
		if body := strings.TrimSpace(string(resp.Body())); body != "[]" {
			return nil, fmt.Errorf("%w: credentials response is not a list", ErrMalformedResponse)
		}
		credentials = []models.Credential{}
	}

	return credentials, nil
}

// FetchOneTimeCode implements [RemoteClient].
func (h *httpRemoteClient) FetchOneTimeCode(ctx context.Context, token models.AuthToken, credentialID int64) (models.OneTimeCode, error) {
	var code models.OneTimeCode

	resp, err := h.authedRequest(ctx, token).
		SetResult(&code).
		Get(h.endpoint("/credentials/" + strconv.FormatInt(credentialID, 10) + "/totp/"))
	if err != nil {
		return models.OneTimeCode{}, transportError("fetch totp", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.OneTimeCode{}, err
	}
	if code.Code == "" {
		return models.OneTimeCode{}, fmt.Errorf("%w: totp response has no code", ErrMalformedResponse)
	}

	return code, nil
}

// CreateCredential implements [RemoteClient].
func (h *httpRemoteClient) CreateCredential(ctx context.Context, token models.AuthToken, credential models.NewCredential) (models.Credential, error) {
	var created models.Credential

	resp, err := h.authedRequest(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(credential).
		SetResult(&created).
		Post(h.endpoint("/credentials/"))
	if err != nil {
		return models.Credential{}, transportError("create credential", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Credential{}, err
	}

	return created, nil
}

func (h *httpRemoteClient) endpoint(path string) string {
	return h.BaseURL() + path
}

// request starts a request bound to ctx and stamped with the trace id.
func (h *httpRemoteClient) request(ctx context.Context) *resty.Request {
	traceID, ok := utils.GetTraceIDFromContext(ctx)
	if !ok {
		traceID = utils.NewTraceID()
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader(utils.TraceIDHeader, traceID)
}

func (h *httpRemoteClient) authedRequest(ctx context.Context, token models.AuthToken) *resty.Request {
	req := h.request(ctx)
	if !token.IsZero() {
		req.SetAuthToken(token.Access)
	}
	return req
}
