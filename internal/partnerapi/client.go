// Package partnerapi is the HTTP client for the partner backend. Every
// endpoint answers with a {success, data, message} envelope; the client
// turns both success:false and non-2xx statuses into *model.APIError.
// There are no implicit retries.
package partnerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"partner-sync/internal/model"
	"partner-sync/internal/transport"
)

const (
	pathProperties       = "/api/partners/properties"
	pathPropertiesRules  = "/api/partners/properties/rules"
	pathPropertiesPhotos = "/api/partners/properties/photos"
	pathStores           = "/api/partners/stores"
	pathUploadImage      = "/api/partners/upload-image"
	pathPartnerSignup    = "/api/partners/signup"
	pathLogin            = "/api/auth/login"
	pathSignup           = "/api/auth/signup"
	pathGoogleAuth       = "/api/auth/google-auth"
	pathUser             = "/api/auth/user/"

	userAgent   = "partner-sync/1.0"
	serviceName = "partner api"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
	// maxErrorMessage caps a plain-text error body shown to the user.
	maxErrorMessage = 200
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Token is sent as a bearer credential when set.
	Token string
	// HTTPClient overrides the default transport; its Timeout should be set.
	HTTPClient *http.Client
	Timeout    time.Duration
	ChromeTLS  bool
	Logger     *slog.Logger
}

// Client talks to the partner backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// New creates a client. BaseURL is required.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing API base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = transport.NewClient(transport.Options{Timeout: cfg.Timeout, ChromeTLS: cfg.ChromeTLS})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		logger:     logger,
	}, nil
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// === HTTP Helpers ===

// newRequest creates a JSON request. query may be nil.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)
	return req, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// do executes the request, unwraps the envelope and decodes data into
// result when result is non-nil. The envelope message is returned so
// callers can surface it.
func (c *Client) do(req *http.Request, result any) (string, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("partner api request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return "", model.NewNetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", model.NewNetworkError(serviceName, fmt.Errorf("reading response: %w", err))
	}

	c.logger.Debug("partner api request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	var env model.Envelope
	parseErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", parseError(resp.StatusCode, env, body)
	}
	if parseErr != nil {
		return "", model.NewMalformedShapeError("response", parseErr)
	}
	if !env.Success {
		return "", model.NewRemoteError(resp.StatusCode, env.Message)
	}

	if result != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return "", model.NewMalformedShapeError("data", err)
		}
	}
	return env.Message, nil
}

// parseError converts an error status to model.APIError, preferring the
// envelope message and falling back to a plain-text body.
func parseError(statusCode int, env model.Envelope, body []byte) error {
	msg := env.Message
	if msg == "" && !json.Valid(body) {
		msg = truncate(strings.TrimSpace(string(body)), maxErrorMessage)
	}
	return model.NewRemoteError(statusCode, msg)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func emailQuery(email string) url.Values {
	return url.Values{"email": {email}}
}
