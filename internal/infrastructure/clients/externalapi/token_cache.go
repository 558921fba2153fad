package externalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
	apperrors "github.com/agendas-medicas/backend/pkg/errors"
)

// clockSkew is subtracted from the expiry when deciding whether the cached
// access token can still be used.
const clockSkew = 60 * time.Second

// TokenStatus is the diagnostic view of the cached credentials.
type TokenStatus struct {
	HasAccessToken  bool  `json:"hasAccessToken"`
	HasRefreshToken bool  `json:"hasRefreshToken"`
	ExpiresAt       int64 `json:"expiresAt"`
	ExpiresInMs     int64 `json:"expiresInMs"`
	IsValid         bool  `json:"isValid"`
}

// TokenCache holds the access and refresh tokens of the provider API.
// Concurrent callers that find the token missing or expired share a single
// login or refresh round trip.
type TokenCache struct {
	authURL    string
	refreshURL string
	username   string
	password   string

	httpClient *http.Client
	metrics    *observability.Metrics
	logger     zerolog.Logger
	now        func() time.Time

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time

	group singleflight.Group
}

// renewKey is shared by every path that replaces the cached credentials, so
// at most one login or refresh is in flight.
const renewKey = "token"

// NewTokenCache creates an empty token cache for the configured auth endpoints.
func NewTokenCache(cfg *config.ExternalConfig, httpClient *http.Client, metrics *observability.Metrics) *TokenCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &TokenCache{
		authURL:    cfg.AuthURL,
		refreshURL: cfg.RefreshURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     observability.Component("external_auth"),
		now:        time.Now,
	}
}

// AccessToken returns a usable access token, logging in or refreshing first
// when the cached one is missing or about to expire.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	if token, ok := c.validToken(); ok {
		return token, nil
	}

	_, err, _ := c.group.Do(renewKey, func() (any, error) {
		if _, ok := c.validToken(); ok {
			return nil, nil
		}
		shared := context.WithoutCancel(ctx)
		if c.hasRefreshToken() {
			return c.refresh(shared)
		}
		return c.login(shared)
	})
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token == "" {
		return "", apperrors.NewUnauthorizedError("La API de autenticación no devolvió access_token", nil)
	}
	return token, nil
}

// TokenContext returns the cached credentials as an oauth2 token.
func (c *TokenCache) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	access, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: c.refreshToken,
		Expiry:       c.expiresAt,
	}, nil
}

// Token implements oauth2.TokenSource.
func (c *TokenCache) Token() (*oauth2.Token, error) {
	return c.TokenContext(context.Background())
}

// Login authenticates with the configured username and password and returns
// the raw response body.
func (c *TokenCache) Login(ctx context.Context) (map[string]any, error) {
	return c.login(ctx)
}

// Refresh exchanges the refresh token for new credentials, falling back to a
// full login when no refresh is possible or the refresh is rejected. A call
// that joins a renewal already started by AccessToken returns nil data.
func (c *TokenCache) Refresh(ctx context.Context) (map[string]any, error) {
	v, err, _ := c.group.Do(renewKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	data, _ := v.(map[string]any)
	return data, nil
}

// Status reports the state of the cached credentials.
func (c *TokenCache) Status() TokenStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	status := TokenStatus{
		HasAccessToken:  c.accessToken != "",
		HasRefreshToken: c.refreshToken != "",
		IsValid:         c.validLocked(now),
	}
	if !c.expiresAt.IsZero() {
		status.ExpiresAt = c.expiresAt.UnixMilli()
		status.ExpiresInMs = max(0, c.expiresAt.Sub(now).Milliseconds())
	}
	return status
}

func (c *TokenCache) validToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.validLocked(c.now()) {
		return "", false
	}
	return c.accessToken, true
}

func (c *TokenCache) validLocked(now time.Time) bool {
	return c.accessToken != "" && now.Add(clockSkew).Before(c.expiresAt)
}

func (c *TokenCache) hasRefreshToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken != ""
}

func (c *TokenCache) login(ctx context.Context) (map[string]any, error) {
	if c.authURL == "" {
		return nil, apperrors.NewUnauthorizedError("EXTERNAL_AUTH_URL no configurada", nil)
	}

	form := url.Values{}
	form.Set("Username", c.username)
	form.Set("Password", c.password)

	data, err := c.postForm(ctx, c.authURL, form)
	observability.RecordTokenRefresh(ctx, c.metrics, "login", err == nil)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError(fmt.Sprintf("Error al autenticar: %v", err), err)
	}

	c.setTokens(data)
	c.logger.Info().Msg("Autenticación con API externa exitosa")
	return data, nil
}

func (c *TokenCache) refresh(ctx context.Context) (map[string]any, error) {
	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()

	if c.refreshURL == "" || refreshToken == "" {
		return c.login(ctx)
	}

	form := url.Values{}
	form.Set("refresh_token", refreshToken)

	data, err := c.postForm(ctx, c.refreshURL, form)
	observability.RecordTokenRefresh(ctx, c.metrics, "refresh", err == nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Refresh de token rechazado, reintentando login")
		return c.login(ctx)
	}

	c.setTokens(data)
	return data, nil
}

// statusError is a non-2xx answer of the auth endpoints.
type statusError struct {
	status int
	reason string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%d %s", e.status, e.reason)
}

func (c *TokenCache) postForm(ctx context.Context, endpoint string, form url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		reason := strings.TrimSpace(string(body))
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return nil, &statusError{status: resp.StatusCode, reason: reason}
	}

	data := map[string]any{}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("respuesta de autenticación inválida: %w", err)
	}
	return data, nil
}

func (c *TokenCache) setTokens(data map[string]any) {
	access := firstString(data, "access_token", "accessToken")
	refresh := firstString(data, "refresh_token", "refreshToken")
	seconds, hasExpiry := firstNumber(data, "expires_in", "expiresIn")

	now := c.now()
	var expiresAt time.Time
	switch {
	case hasExpiry:
		expiresAt = now.Add(time.Duration(max(0, seconds) * float64(time.Second)))
	case access != "":
		expiresAt = jwtExpiry(access, now)
	default:
		expiresAt = now
	}

	c.mu.Lock()
	c.accessToken = access
	if refresh != "" {
		c.refreshToken = refresh
	}
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

// jwtExpiry reads the exp claim of an unverified JWT; opaque tokens or tokens
// without exp are treated as already expired.
func jwtExpiry(token string, now time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return now
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return now
	}
	return exp.Time
}

func firstString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(data map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
