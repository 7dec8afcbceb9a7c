// Package client is the single choke point for calls to the club platform API.
// It attaches the token, unwraps the {code, message, data} envelope and turns every
// failure into a *Error after notifying the user once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/tokenstore"
)

const (
	DefaultBaseURL = "/api"
	DefaultTimeout = 15 * time.Second

	headerRequestID = "X-Request-Id"
)

// Navigator forces a route change, e.g. to the login view after a 401
type Navigator interface {
	Navigate(path string)
}

// Request describes one API call
type Request struct {
	Method string
	// URL is relative to the base URL, e.g. "/club/list"
	URL string
	// Params are encoded into the query string
	Params url.Values
	// Data is JSON-encoded as the body
	Data any
	// Silent suppresses the user-visible notice; the error is still returned
	Silent bool
}

type silentKey struct{}

// WithSilent marks every call made with ctx as silent. Background jobs use it so a
// failure never surfaces as a notice.
func WithSilent(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentKey{}, true)
}

// IsSilent reports whether ctx was marked by WithSilent
func IsSilent(ctx context.Context) bool {
	silent, _ := ctx.Value(silentKey{}).(bool)
	return silent
}

// Envelope is the wire shape of every response
type Envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     tokenstore.Store
	Notifier   notify.Notifier
	Navigator  Navigator
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

// Client represents an HTTP client for the club platform API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
	notifier   notify.Notifier
	navigator  Navigator
	logger     zerolog.Logger

	// onUnauthorized runs after the token is evicted by a 401
	onUnauthorized func()
}

// New creates a new API client
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = tokenstore.NewMemory("")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		notifier:   notifier,
		navigator:  opts.Navigator,
		logger:     opts.Logger,
	}
}

// SetNavigator sets the navigator used on 401. The router is usually built after the
// client, so it is wired late.
func (c *Client) SetNavigator(n Navigator) {
	c.navigator = n
}

// SetOnUnauthorized registers fn to run when a 401 evicts the token, before the
// navigation to the login view. The session store uses it to drop its copy.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the base URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes the envelope data into out (which may be nil).
// Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	requestID := ulid.Make().String()
	start := time.Now()
	if IsSilent(ctx) {
		req.Silent = true
	}

	httpReq, err := c.newRequest(ctx, req, requestID)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fail(req, requestID, ClassifyTransport(0, "", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(req, requestID, ClassifyTransport(0, "", err))
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API call")

	var env Envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(req, requestID, ClassifyTransport(resp.StatusCode, env.Message, nil))
	}

	if decodeErr != nil || env.Code == nil {
		e := ClassifyEnvelope(0, "")
		e.Status = resp.StatusCode
		e.Err = decodeErr
		return c.fail(req, requestID, e)
	}

	if *env.Code != 0 {
		e := ClassifyEnvelope(*env.Code, env.Message)
		e.Status = resp.StatusCode
		return c.fail(req, requestID, e)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.fail(req, requestID, &Error{
			Kind:    KindEnvelope,
			Status:  resp.StatusCode,
			Message: MsgRequestFailed,
			Err:     fmt.Errorf("failed to decode response data: %w", err),
		})
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request, requestID string) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimPrefix(req.URL, "/")
	if len(req.Params) > 0 {
		target += "?" + req.Params.Encode()
	}

	var body io.Reader
	if req.Data != nil {
		jsonData, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerRequestID, requestID)

	if token := tokenstore.Token(c.tokens); token != "" {
		httpReq.Header.Set("Authorization", token)
	}

	return httpReq, nil
}

// fail applies the side effects of a failed call: token eviction and redirect on 401,
// and one notice unless the request is silent
func (c *Client) fail(req Request, requestID string, e *Error) error {
	c.logger.Warn().
		Err(e.Err).
		Str("request_id", requestID).
		Str("url", req.URL).
		Str("kind", e.Kind.String()).
		Int("status", e.Status).
		Int("code", e.Code).
		Str("message", e.Message).
		Msg("API call failed")

	if !req.Silent {
		if n, ok := NoticeFor(e); ok {
			c.notifier.Notify(n)
		}
	}

	if e.Kind == KindUnauthorized {
		if err := c.tokens.Remove(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to remove token after 401")
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if c.navigator != nil {
			c.navigator.Navigate(router.PathLogin)
		}
	}

	return e
}
