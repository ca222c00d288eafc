// Package restapi implements the service.Service interface against the task
// service REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskboard/internal/config"
	"taskboard/internal/metrics"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

const (
	// APITimeout is the default timeout for API calls.
	APITimeout = config.DefaultTimeout

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// ErrTimeout is returned when a request exceeds its deadline.
var ErrTimeout = errors.New("request timed out")

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	store   *session.Store
	log     *slog.Logger

	// anon serves login and registration; authed attaches the bearer token.
	anon   *http.Client
	authed *http.Client
}

// New creates a REST client for cfg.APIURL. Requests on authenticated
// endpoints take their bearer token from store. rec may be nil.
func New(cfg *config.Config, store *session.Store, rec *metrics.Recorder) *Client {
	var base http.RoundTripper = http.DefaultTransport
	if rec != nil {
		base = rec.InstrumentRoundTripper(base)
	}
	return NewWithTransport(cfg, store, base)
}

// NewWithTransport creates a client on top of a custom transport (for testing).
func NewWithTransport(cfg *config.Config, store *session.Store, base http.RoundTripper) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		timeout: timeout,
		store:   store,
		log:     cfg.Logger(),
		anon:    &http.Client{Transport: base},
		authed:  &http.Client{Transport: &oauth2.Transport{Source: store, Base: base}},
	}
}

// request describes one API call.
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	anonymous   bool
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return request{}, err
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do executes r and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	httpClient := c.authed
	if r.anonymous {
		httpClient = c.anon
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", r.method, "path", r.path, "request_id", reqID, "error", err)
		return c.transportError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return c.wrapError(err, r.anonymous)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// transportError maps failures that happened before a response arrived.
func (c *Client) transportError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return session.ErrNoSession
	case errors.Is(err, service.ErrSessionExpired):
		return service.ErrSessionExpired
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return context.Canceled
	}
	return fmt.Errorf("cannot reach %s: %w", c.baseURL, err)
}

// wrapError maps a non-2xx response to the service error vocabulary.
// A 401 on an authenticated request ends the session.
func (c *Client) wrapError(err error, anonymous bool) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		if anonymous {
			return service.ErrInvalidCredentials
		}
		if cerr := c.store.Clear(); cerr != nil {
			c.log.Warn("failed to clear session", "error", cerr)
		}
		return service.ErrSessionExpired
	case http.StatusForbidden:
		return service.ErrForbidden
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	return &service.APIError{Status: gerr.Code, Message: serverMessage(gerr.Body)}
}

// serverMessage extracts {"message": ...} from an error body.
func serverMessage(body string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(body)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func userPath(id string) string {
	return "/admin/users/" + url.PathEscape(id)
}
