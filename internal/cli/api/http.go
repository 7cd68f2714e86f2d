package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionCookie is the DSpace session cookie name.
const SessionCookie = "JSESSIONID"

// ErrNoSession is returned when login succeeds at HTTP level but no session cookie is issued.
var ErrNoSession = errors.New("no JSESSIONID cookie in login response")

// StatusError is returned for any non-2xx answer of the DSpace API.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: server status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client talks to a DSpace 6 REST API. A Client holds one session and is not
// safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.SugaredLogger
	handles      *cache.Cache
	sessionID    string
	userFullName string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSession restores a previously obtained JSESSIONID.
func WithSession(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// New creates a client for the API rooted at baseURL (e.g. https://host/rest).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop().Sugar(),
		handles:    cache.New(30*time.Minute, time.Hour),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger.Infow("Initializing client", "url", c.baseURL)
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// SessionID returns the current JSESSIONID, empty before Authenticate.
func (c *Client) SessionID() string { return c.sessionID }

// UserFullName returns the display name resolved during Authenticate.
func (c *Client) UserFullName() string { return c.userFullName }

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newRequest builds a request with the standard DSpace headers and session cookie.
func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.sessionID})
	}
	return req, nil
}

// send executes req and returns the response with its fully read body.
// Non-2xx statuses are converted to *StatusError.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	c.logger.Debugw("request", "method", req.Method, "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, body, &StatusError{
			Method:     req.Method,
			URL:        req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, body, nil
}

// doJSON sends payload (if any) as JSON and decodes the answer into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, rawURL, body, contentType)
	if err != nil {
		return err
	}
	_, respBody, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
