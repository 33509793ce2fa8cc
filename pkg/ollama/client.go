package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/huvtsp/alumni/internal/config"
)

var (
	ErrCircuitOpen = errors.New("ollama circuit open")
	ErrNoInput     = errors.New("ollama: nothing to embed")
	ErrClosed      = errors.New("ollama: client closed")
)

// Client wraps the Ollama API client and adds retries, timeout, and circuit breaker.
type Client struct {
	api    *api.Client
	cfg    config.OllamaConfig
	client *http.Client

	// simple circuit breaker state
	failures  int32
	openUntil int64 // unix nano
	closed    int32 // atomic flag for Close()
}

// NewClient creates a new Ollama client wrapper.
func NewClient(cfg config.OllamaConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		api:    api.NewClient(u, httpClient),
		cfg:    cfg,
		client: httpClient,
	}
	logger.Info("ollama: NewClient created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

func NewDefaultClient(cfg config.OllamaConfig) (*Client, error) {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient)
}

func (c *Client) isCircuitOpen() bool {
	if c.cfg.CircuitFailureThreshold <= 0 {
		return false
	}
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// half-open: reset failures and allow a request
	atomic.StoreInt32(&c.failures, 0)
	return false
}

// Close releases idle connections on the underlying HTTP transport when
// supported. Embed fails with ErrClosed afterwards. Close is idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
			logger.Info("ollama: client Close() called - CloseIdleConnections invoked")
		}
	}
	return nil
}

// package-level logger for pkg/ollama; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/ollama. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func (c *Client) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if c.cfg.CircuitFailureThreshold > 0 && v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt32(&c.failures, 0)
}

// Health pings the Ollama instance by listing its models.
func (c *Client) Health(ctx context.Context) error {
	models, err := c.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if len(models) == 0 {
		c.recordFailure()
		return fmt.Errorf("health check failed: no models returned")
	}
	return nil
}

// ModelInfo is a lightweight model descriptor returned by ListModels.
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ListModels returns the models installed on the Ollama instance.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	resp, err := c.api.List(ctx)
	if err != nil {
		c.recordFailure()
		return nil, err
	}

	out := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		out = append(out, ModelInfo{Name: m.Name, Size: m.Size})
	}
	c.recordSuccess()
	return out, nil
}

// Embed returns one vector per input text. Transient failures are retried
// with a linear backoff until Retries is exhausted or the circuit opens.
func (c *Client) Embed(ctx context.Context, model string, texts ...string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrNoInput
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		return nil, ErrClosed
	}
	if c.isCircuitOpen() {
		return nil, ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		ctxReq, cancel := context.WithTimeout(ctx, c.timeout())
		start := time.Now()
		resp, err := c.api.Embed(ctxReq, &api.EmbedRequest{Model: model, Input: texts})
		cancel()

		if err == nil && len(resp.Embeddings) != len(texts) {
			err = fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
		}
		if err == nil {
			c.recordSuccess()
			logger.Debug("ollama: embed", slog.String("model", model), slog.Int("inputs", len(texts)),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()))
			return resp.Embeddings, nil
		}

		lastErr = err
		c.recordFailure()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.cfg.Retries {
			break
		}

		if err := sleep(ctx, c.cfg.Backoff*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
		if c.isCircuitOpen() {
			return nil, ErrCircuitOpen
		}
	}

	return nil, fmt.Errorf("embed failed after retries: %w", lastErr)
}

func (c *Client) timeout() time.Duration {
	if c.cfg.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.cfg.Timeout
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
