package externalapi

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
)

// AuthClient sends requests to the provider API with a bearer token. A 401
// answer triggers one token refresh and one retry of the request.
type AuthClient struct {
	tokens     *TokenCache
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewAuthClient creates an authenticated client sharing tokens with the cache.
func NewAuthClient(tokens *TokenCache, httpClient *http.Client, metrics *observability.Metrics) *AuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AuthClient{
		tokens:     tokens,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     observability.Component("external_http"),
	}
}

// Do sends req with authorization. The request body, if any, is buffered so
// the retry after a refresh can replay it.
func (c *AuthClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.send(req, body)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Drain the rejected answer before retrying.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.logger.Info().Str("url", req.URL.String()).Msg("401 de API externa, refrescando token")
	if _, err := c.tokens.Refresh(req.Context()); err != nil {
		return nil, err
	}
	return c.send(req, body)
}

func (c *AuthClient) send(original *http.Request, body []byte) (*http.Response, error) {
	ctx := original.Context()
	token, err := c.tokens.TokenContext(ctx)
	if err != nil {
		return nil, err
	}

	req := original.Clone(ctx)
	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	token.SetAuthHeader(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	observability.RecordUpstreamMetric(ctx, c.metrics, req.Method, status, time.Since(start))
	return resp, err
}
