// Package client implements ports.UserAPI over HTTP and JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/clublink/usersync/internal/core/domain"
)

const maxBodyBytes = 10 << 20

// Client talks to the user-management API rooted at a single base resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New constructs a client for baseURL, e.g. http://localhost:3000/api/test-db.
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resource the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Probe issues a GET against the base resource and reports the status code.
func (c *Client) Probe(ctx context.Context) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, transportFailure(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	c.log.Debug().Int("status", resp.StatusCode).Msg("health probe")
	return resp.StatusCode, nil
}

func (c *Client) List(ctx context.Context) (domain.Envelope[[]domain.User], error) {
	return doEnvelope[[]domain.User](ctx, c, http.MethodGet, "", nil)
}

func (c *Client) Create(ctx context.Context, draft domain.Draft) (domain.Envelope[domain.User], error) {
	return doEnvelope[domain.User](ctx, c, http.MethodPost, "", draft)
}

func (c *Client) Update(ctx context.Context, id string, draft domain.Draft) (domain.Envelope[domain.User], error) {
	return doEnvelope[domain.User](ctx, c, http.MethodPut, id, draft)
}

func (c *Client) Delete(ctx context.Context, id string) (domain.Envelope[domain.User], error) {
	return doEnvelope[domain.User](ctx, c, http.MethodDelete, id, nil)
}

// doEnvelope sends a JSON request and decodes the envelope response.
//
// A non-2xx response is a transport failure unless its body is an error
// envelope, in which case the server's message is surfaced as an application
// failure.
func doEnvelope[T any](ctx context.Context, c *Client, method, id string, in any) (domain.Envelope[T], error) {
	var env domain.Envelope[T]

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return env, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, id, body)
	if err != nil {
		return env, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return env, transportFailure(err)
	}

	c.log.Debug().
		Str("method", method).
		Str("id", id).
		Int("status", resp.StatusCode).
		Msg("api response")

	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && !env.Success && env.Error != "" {
			return env, nil
		}
		reason := fmt.Sprintf("API responded with status: %d", resp.StatusCode)
		return domain.Envelope[T]{}, domain.NewTransportCause(reason, nil)
	}

	if decodeErr != nil {
		return domain.Envelope[T]{}, domain.NewTransportCause("invalid JSON response: "+decodeErr.Error(), decodeErr)
	}
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, method, id string, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, domain.NewTransportCause("invalid API URL: "+err.Error(), err)
	}
	if id != "" {
		q := u.Query()
		q.Set("id", id)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, domain.NewTransportCause(err.Error(), err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// transportFailure keeps the cause's own message, dropping the method and URL
// prefix net/http adds.
func transportFailure(err error) error {
	reason := err.Error()
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		reason = ue.Err.Error()
	}
	return domain.NewTransportCause(reason, err)
}
