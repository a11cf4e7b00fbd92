// Package session implements the authenticated API client core: token storage
// across two persistence tiers, a process-wide auth event bus, the HTTP request
// executor with transparent one-shot recovery from access-token expiry, and a
// single-flight token refresh coordinator.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/izumi-house/siteclient/internal/logging"
)

const (
	loginPath   = "/api/login"
	logoutPath  = "/api/logout"
	refreshPath = "/api/token/refresh"

	defaultTimeout = 10 * time.Second
)

// Options configures a Client. The zero value of every field has a working
// default; tests typically set only BaseURL.
type Options struct {
	// BaseURL is prepended to every request path by plain concatenation.
	BaseURL string

	// HTTPClient is the underlying transport. Defaults to a client with a
	// file-less cookie jar; callers wanting the refresh cookie to survive
	// restarts pass a client whose Jar is a FileJar.
	HTTPClient *http.Client

	// Timeout bounds each HTTP attempt. <= 0 selects the 10s default.
	Timeout time.Duration

	// Store holds the bearer token. A memory-only store is created when nil.
	Store *TokenStore

	// Bus receives session lifecycle events. Created when nil.
	Bus *Bus
}

// Client performs authenticated requests against the site API.
// It owns the process-wide mutable session state the frontend used to keep in
// module globals: the current token (via Store) and the in-flight refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	store      *TokenStore
	bus        *Bus
	sessionID  string

	refreshGroup singleflight.Group
}

// New constructs a Client from opts.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, _ := NewFileJar("")
		httpClient = &http.Client{Jar: jar}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	store := opts.Store
	if store == nil {
		store = NewTokenStore("", "")
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewBus()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		store:      store,
		bus:        bus,
		sessionID:  uuid.NewString(),
	}
}

// Store returns the client's token store.
func (c *Client) Store() *TokenStore { return c.store }

// Bus returns the client's auth event bus.
func (c *Client) Bus() *Bus { return c.bus }

// requestOptions carries per-request knobs applied by RequestOption values.
type requestOptions struct {
	headers     http.Header
	noAuthRetry bool
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// WithHeader adds a caller-supplied header. Caller headers are applied after
// the base JSON content type but before the Authorization header, so callers
// may override the content type but never the attached credential.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(key, value)
	}
}

// WithoutAuthRetry opts this request out of the 401 refresh-and-retry flow.
func WithoutAuthRetry() RequestOption {
	return func(o *requestOptions) { o.noAuthRetry = true }
}

// isAuthPath reports whether path targets an auth lifecycle endpoint. Those
// never trigger the refresh flow, so a failing refresh cannot recurse into
// itself.
func isAuthPath(path string) bool {
	return strings.HasPrefix(path, loginPath) ||
		strings.HasPrefix(path, logoutPath) ||
		strings.HasPrefix(path, refreshPath)
}

// Payload is the decoded result of a successful request.
type Payload struct {
	// Status is the HTTP status of the final response.
	Status int
	body   []byte
	isJSON bool
}

// IsJSON reports whether the response advertised a JSON content type.
func (p *Payload) IsJSON() bool { return p.isJSON }

// Bytes returns the raw (already decompressed) response body.
func (p *Payload) Bytes() []byte { return p.body }

// Text returns the response body as a string.
func (p *Payload) Text() string { return string(p.body) }

// Decode unmarshals an advertised-JSON body into out. A parse failure on an
// advertised-JSON response is surfaced as an error; non-JSON bodies are
// rejected so callers fall back to Text.
func (p *Payload) Decode(out any) error {
	if !p.isJSON {
		return fmt.Errorf("session: response is not JSON")
	}
	if err := json.Unmarshal(p.body, out); err != nil {
		return fmt.Errorf("session: decode response failed: %w", err)
	}
	return nil
}

// Do performs one logical request: method+path with an optional JSON body,
// bounded latency, automatic credential attachment, and a single transparent
// refresh-and-retry when the access token has expired.
//
// On a 401 with a token held, a non-auth path, and no opt-out, exactly one
// refresh is attempted. Success replays the request once and the second
// response is final with no further 401 handling; failure returns the
// ORIGINAL 401 error. The failed refresh flight itself emits
// EventSessionExpired, once per flight no matter how many requests joined it.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, opts ...RequestOption) (*Payload, error) {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	disableAuthRetry := options.noAuthRetry || isAuthPath(path)

	reqID := logging.GetRequestID(ctx)
	if reqID == "" {
		reqID = logging.GenerateRequestID()
		ctx = logging.WithRequestID(ctx, reqID)
	}
	logger := log.WithField("request_id", reqID)
	logger.WithFields(log.Fields{"method": method, "path": path}).Debug("API request")

	status, data, isJSON, err := c.attempt(ctx, method, path, body, options.headers)
	if err != nil {
		logger.WithFields(log.Fields{"path": path, "error": err}).Error("API error")
		return nil, err
	}

	if status == http.StatusUnauthorized && c.store.Token() != "" && !disableAuthRetry {
		logger.Info("access token expired; attempting refresh")
		if c.Refresh(ctx) {
			logger.Info("refresh succeeded; retrying original request")
			status, data, isJSON, err = c.attempt(ctx, method, path, body, options.headers)
			if err != nil {
				logger.WithFields(log.Fields{"path": path, "error": err}).Error("API error")
				return nil, err
			}
		} else {
			logger.Warn("refresh failed; session expired")
		}
	}

	if status < 200 || status > 299 {
		err := newHTTPError(status, strings.TrimSpace(string(data)), http.StatusText(status))
		logger.WithFields(log.Fields{"path": path, "status": status}).Warn("API non-OK response")
		return nil, err
	}

	return &Payload{Status: status, body: data, isJSON: isJSON}, nil
}

// attempt performs one HTTP round-trip with the configured timeout and returns
// the status, decompressed body, and whether the body advertised JSON.
func (c *Client) attempt(ctx context.Context, method, path string, body []byte, callerHeaders http.Header) (int, []byte, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, false, fmt.Errorf("session: build request failed: %w", err)
	}

	// Header precedence: base defaults, then caller headers, then the bearer
	// credential last so it can be neither omitted nor overridden.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("X-Client-Session", c.sessionID)
	if reqID := logging.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}
	for key, values := range callerHeaders {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, false, newTimeoutError()
		}
		return 0, nil, false, fmt.Errorf("session: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, false, newTimeoutError()
		}
		return 0, nil, false, fmt.Errorf("session: read response failed: %w", err)
	}

	data, err := decompressBody(res.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return 0, nil, false, fmt.Errorf("session: decompress response failed: %w", err)
	}

	contentType := res.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")
	return res.StatusCode, data, isJSON, nil
}
