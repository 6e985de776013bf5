// Package session provides the shared HTTP session used by every collector
// in a run: one client, one User-Agent, retries with exponential backoff,
// an optional minimum spacing between requests and a per-run cache of JSON
// responses.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"opensight/internal/core/ports"
	"opensight/internal/platform/cache"
	"opensight/internal/platform/config"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/rate"
)

// DefaultUserAgent identifies the tool to every remote service.
const DefaultUserAgent = "OpenSight/1.0 (+passive osint collector)"

// jsonCacheSize bounds the number of JSON bodies kept per session.
const jsonCacheSize = 64

// Config holds the configuration for a session.
type Config struct {
	// UserAgent is the User-Agent header value.
	UserAgent string

	// Timeout is the per-request timeout.
	// Default: 15 seconds
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RetryBackoff is the initial backoff between retries; it grows exponentially.
	// Default: 500ms
	RetryBackoff time.Duration

	// MaxRetryBackoff caps a single backoff interval.
	// Default: 10 seconds
	MaxRetryBackoff time.Duration

	// ProxyURL routes every request through this proxy when set.
	ProxyURL string

	// MinInterval is the minimum spacing between requests.
	MinInterval time.Duration

	// EnforceRateLimit turns MinInterval on. When false MinInterval is only declared.
	EnforceRateLimit bool
}

// FromConfig maps the network section of the application config.
func FromConfig(n config.Network) Config {
	return Config{
		UserAgent:        n.UserAgent,
		Timeout:          n.Timeout,
		MaxRetries:       n.MaxRetries,
		RetryBackoff:     n.RetryBackoff,
		ProxyURL:         n.ProxyURL,
		MinInterval:      n.MinRequestInterval,
		EnforceRateLimit: n.EnforceRateLimit,
	}
}

// Session is a ports.Session backed by net/http.
type Session struct {
	client    *http.Client
	gate      *rate.Gate
	responses *cache.LRU[[]byte]
	logger    logx.Logger
	config    Config
	closeOnce sync.Once
}

// Open builds a session. An unusable proxy URL is reported as
// errors.ErrInvalidInput and no session is returned.
func Open(cfg Config, logger logx.Logger) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.MaxRetryBackoff <= 0 {
		cfg.MaxRetryBackoff = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil || proxy.Scheme == "" || proxy.Host == "" {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "proxy url %q", cfg.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	var gate *rate.Gate
	if cfg.EnforceRateLimit {
		gate = rate.NewInterval(cfg.MinInterval)
	}

	s := &Session{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		gate:      gate,
		responses: cache.New[[]byte](jsonCacheSize),
		logger:    logger.With("component", "session"),
		config:    cfg,
	}

	s.logger.Debug("session opened",
		"timeout", cfg.Timeout.String(),
		"max_retries", cfg.MaxRetries,
		"proxy", cfg.ProxyURL != "",
		"min_interval", gate.Interval().String(),
	)
	return s, nil
}

// Opener returns a ports.SessionOpener building sessions from cfg.
func Opener(cfg Config, logger logx.Logger) ports.SessionOpener {
	return func(ctx context.Context) (ports.Session, error) {
		s, err := Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// UserAgent implements ports.Session.
func (s *Session) UserAgent() string {
	return s.config.UserAgent
}

// Get performs a GET with retries on network errors and retryable statuses.
// The caller owns the returned body.
func (s *Session) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	var (
		resp    *http.Response
		attempt int
	)

	op := func() error {
		attempt++
		if err := s.gate.Wait(ctx); err != nil {
			return backoff.Permanent(errors.Wrap(err, "rate gate wait"))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(errors.Wrapf(err, "build request for %s", rawURL))
		}
		req.Header.Set("User-Agent", s.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		s.logger.Debug("HTTP request", "url", rawURL, "attempt", attempt)

		start := time.Now()
		r, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		s.logger.Debug("HTTP response",
			"url", rawURL,
			"status", r.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		if isRetryableStatus(r.StatusCode) {
			statusErr := CheckStatus(r)
			drain(r)
			return statusErr
		}

		resp = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("HTTP request failed, retrying",
			"url", rawURL,
			"attempt", attempt,
			"error", err.Error(),
			"backoff_ms", wait.Milliseconds(),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.config.MaxRetries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, errors.Wrapf(err, "GET %s failed after %d attempts", rawURL, attempt)
	}
	return resp, nil
}

// FetchJSON performs a GET expecting JSON and returns the body of a 2xx response.
// Successful bodies are kept for the lifetime of the session, so a repeated
// request with the same URL and headers does not hit the network again.
func (s *Session) FetchJSON(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	merged := map[string]string{"Accept": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}

	key := cacheKey(rawURL, merged)
	if body, ok := s.responses.Get(key); ok {
		s.logger.Debug("JSON response served from cache", "url", rawURL)
		return body, nil
	}

	resp, err := s.Get(ctx, rawURL, merged)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		drain(resp)
		return nil, errors.Wrapf(err, "request to %s failed", rawURL)
	}

	body, err := ReadBody(resp, 0)
	if err != nil {
		return nil, err
	}
	s.responses.Set(key, body, 0)
	return body, nil
}

func cacheKey(rawURL string, headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(rawURL)
	for _, name := range names {
		b.WriteString("\n")
		b.WriteString(strings.ToLower(name))
		b.WriteString(": ")
		b.WriteString(headers[name])
	}
	return b.String()
}

// FetchPage performs a GET and returns the response with at most limit body
// bytes. Non-2xx statuses are returned as pages, not errors.
func (s *Session) FetchPage(ctx context.Context, rawURL string, limit int64) (*ports.Page, error) {
	resp, err := s.Get(ctx, rawURL, map[string]string{"Accept": "text/html,application/xhtml+xml,*/*;q=0.8"})
	if err != nil {
		return nil, err
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	body, err := ReadBody(resp, limit)
	if err != nil {
		return nil, err
	}

	return &ports.Page{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.client.CloseIdleConnections()
		s.logger.Debug("session closed")
	})
	return nil
}

// String returns a human-readable representation of the session configuration.
func (s *Session) String() string {
	return fmt.Sprintf("Session{timeout=%s, max_retries=%d, min_interval=%s}",
		s.config.Timeout,
		s.config.MaxRetries,
		s.gate.Interval(),
	)
}

func (s *Session) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.RetryBackoff
	b.MaxInterval = s.config.MaxRetryBackoff
	b.MaxElapsedTime = 0
	return b
}

// isRetryableStatus checks if an HTTP status code should trigger a retry.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// CheckStatus validates the HTTP status code and returns an error if it's not successful.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

// ReadBody reads up to limit bytes of the body (0 = no limit) and closes it.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
