// Package backendapi is the HTTP client for the AI-Ikigai backend admin API.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

const (
	defaultTimeout  = 10 * time.Second
	maxBodyBytes    = 4 << 20
	requestIDHeader = "X-Request-Id"
)

var _ ports.ResourceAPI = (*Client)(nil)

// ErrForeignHost is returned when a resolved URL leaves the registrable domain
// of the base URL; the bearer credential is never sent there.
var ErrForeignHost = errors.New("endpoint outside the backend domain")

// ErrSchemeDowngrade is returned when an https base URL resolves to a
// plaintext endpoint.
var ErrSchemeDowngrade = errors.New("endpoint downgrades the backend scheme")

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s returned %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("backend %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Endpoints overrides resource paths. Values are paths relative to BaseURL
	// or absolute URLs on the same registrable domain.
	Endpoints  map[dashboard.ResourceKind]string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements ports.ResourceAPI over net/http.
type Client struct {
	base       *url.URL
	baseSite   string
	endpoints  map[dashboard.ResourceKind]string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base URL must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, errors.New("backend base URL has no host")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	endpoints := make(map[dashboard.ResourceKind]string, len(cfg.Endpoints))
	for k, v := range cfg.Endpoints {
		endpoints[k] = strings.TrimSpace(v)
	}

	return &Client{
		base:       base,
		baseSite:   registrableDomain(base.Hostname()),
		endpoints:  endpoints,
		httpClient: httpClient,
		logger:     logger.With("component", "backendapi"),
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// registrableDomain returns eTLD+1 for host. Hosts without a public suffix
// (IPs, localhost) are compared whole.
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if net.ParseIP(host) != nil {
		return host
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}

// ResolveURL returns the absolute URL for a resource kind.
func (c *Client) ResolveURL(kind dashboard.ResourceKind) (string, error) {
	path, ok := c.endpoints[kind]
	if !ok || path == "" {
		path = kind.DefaultPath()
	}
	if path == "" {
		return "", fmt.Errorf("no endpoint for resource %q", kind)
	}
	return c.resolve(path)
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", path, err)
	}
	var u *url.URL
	if ref.IsAbs() {
		u = ref
	} else {
		u = c.base.JoinPath(ref.Path)
		u.RawQuery = ref.RawQuery
	}
	if registrableDomain(u.Hostname()) != c.baseSite {
		return "", fmt.Errorf("%w: %s", ErrForeignHost, u.Host)
	}
	if !strings.EqualFold(u.Scheme, c.base.Scheme) && !strings.EqualFold(u.Scheme, "https") {
		return "", fmt.Errorf("%w: %s", ErrSchemeDowngrade, u.Redacted())
	}
	return u.String(), nil
}

// Fetch GETs a resource and returns its raw JSON body.
func (c *Client) Fetch(ctx context.Context, kind dashboard.ResourceKind, token string) (json.RawMessage, error) {
	target, err := c.ResolveURL(kind)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	body, err := c.do(req, token)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("backend %s returned invalid JSON", target)
	}
	return json.RawMessage(body), nil
}

// Mutate POSTs the mutation payload as JSON.
func (c *Client) Mutate(ctx context.Context, m ports.Mutation, token string) error {
	path := m.Op.Path()
	if path == "" {
		return fmt.Errorf("unknown mutation %q", m.Op)
	}
	target, err := c.resolve(path)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(m.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", m.Op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, token)
	return err
}

func (c *Client) do(req *http.Request, token string) ([]byte, error) {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.DebugContext(req.Context(), "backend call",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Path, Body: snippet(body)}
	}
	return body, nil
}

const maxSnippetBytes = 200

// snippet returns the start of an error body, cut on a rune boundary.
func snippet(b []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(b)), "\uFFFD")
	if len(s) <= maxSnippetBytes {
		return s
	}
	cut := maxSnippetBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
