package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-dashboard/internal/config"
	"github.com/spec-kit/barber-dashboard/internal/credential"
)

// Client sends authenticated requests to the booking API. It is bound to
// one base endpoint and one timeout for its whole lifetime; the bearer
// token is re-resolved from the credential stores on every request.
type Client struct {
	base     *url.URL
	http     *http.Client
	creds    *credential.Reconciler
	log      *zap.Logger
	timezone string

	// onSignOut runs after a 401 on a private route has cleared the
	// credential stores.
	onSignOut func()

	mu        sync.Mutex
	authToken string
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides endpoint resolution; see ResolveBaseURL.
	BaseURL string
	// Env decides whether the client carries a cookie jar: cookie-based
	// cross-origin auth is wanted in staging and production but causes
	// CORS friction against a local backend.
	Env     config.Environment
	Timeout time.Duration
	// Creds supplies the token on each request. Optional.
	Creds *credential.Reconciler
	// Timezone is the caller's IANA zone; detected from the host if empty.
	Timezone  string
	OnSignOut func()
	Logger    *zap.Logger
}

// New builds a client from the options.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Timezone == "" {
		opts.Timezone = localTimezone()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Env != config.EnvLocal {
		if jar, jarErr := cookiejar.New(nil); jarErr == nil {
			httpClient.Jar = jar
		}
	}

	return &Client{
		base:      base,
		http:      httpClient,
		creds:     opts.Creds,
		log:       opts.Logger,
		timezone:  opts.Timezone,
		onSignOut: opts.OnSignOut,
	}, nil
}

// BaseURL returns the endpoint the client is bound to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SetAuthToken sets the default bearer token on the live client.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// ClearAuthToken removes the default bearer token from the live client.
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base.JoinPath(path)

	q := target.Query()
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}

	scheduleRelated := strings.Contains(path, "schedule") || strings.Contains(path, "available-times")
	if method == http.MethodGet {
		if scheduleRelated {
			q.Set("timezone", c.timezone)
		}
		// Cache buster: agenda data must never be served stale.
		q.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	target.RawQuery = q.Encode()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &APIError{Category: CategoryUnknown, Message: "could not encode request", err: err}
		}
		if scheduleRelated && method == http.MethodPost {
			payload = injectTimezone(payload, c.timezone)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(payload))
	if err != nil {
		return &APIError{Category: CategoryUnknown, Message: "could not build request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Timezone", c.timezone)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.currentToken(); token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	info := RequestInfo{Method: method, URL: target.String()}

	resp, err := c.http.Do(req)
	if err != nil {
		return Classify(info, nil, nil, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classify(info, nil, nil, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{
				Category:   CategoryUnknown,
				Message:    "could not decode server response",
				StatusCode: resp.StatusCode,
				err:        err,
			}
		}
		return nil
	}

	apiErr := Classify(info, resp, respBody, nil)
	if apiErr.Category == CategoryAuthorization {
		return c.handleUnauthorized(ctx, apiErr)
	}
	return apiErr
}

// handleUnauthorized applies the one effectful branch of error handling:
// a 401 on a private route tears the session down. Server-side callers
// (no route recorded on the context) get ErrAuthToken and must redirect.
func (c *Client) handleUnauthorized(ctx context.Context, apiErr *APIError) error {
	route, ok := RouteFromContext(ctx)
	if !ok {
		apiErr.err = ErrAuthToken
		return apiErr
	}
	if IsPublicRoute(route) {
		return apiErr
	}

	c.log.Info("authorization failure on private route, clearing session",
		zap.String("route", route))
	if c.creds != nil {
		c.creds.Clear()
	}
	c.ClearAuthToken()
	if c.onSignOut != nil {
		c.onSignOut()
	}
	return apiErr
}

// currentToken re-resolves the token from the stores, falling back to the
// live default set at sign-in.
func (c *Client) currentToken() string {
	if c.creds != nil {
		if token, ok := c.creds.Resolve(); ok {
			return token.Value
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authToken
}

// injectTimezone adds the caller timezone to a JSON object payload.
// Non-object payloads pass through untouched.
func injectTimezone(payload []byte, timezone string) []byte {
	var object map[string]any
	if err := json.Unmarshal(payload, &object); err != nil {
		return payload
	}
	if _, exists := object["timezone"]; exists {
		return payload
	}
	object["timezone"] = timezone
	merged, err := json.Marshal(object)
	if err != nil {
		return payload
	}
	return merged
}

func localTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	return "UTC"
}
