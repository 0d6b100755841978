package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/config"
)

// ErrorKind classifies a provider failure
type ErrorKind string

const (
	// KindTransport covers network errors, timeouts, and 5xx responses.
	// Transport failures are retried up to the configured bound.
	KindTransport ErrorKind = "transport"

	// KindLogical covers well-formed error payloads from the provider
	// (not found, rate limit, bad request). Never retried.
	KindLogical ErrorKind = "logical"
)

// Error is the typed failure returned by every provider client.
// It never escapes the client boundary as a panic.
type Error struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s failure: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s failure (status %d): %s", e.Provider, e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a provider transport failure
func IsTransport(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindTransport
}

// IsLogical reports whether err is a provider logical error
func IsLogical(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindLogical
}

var (
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of provider requests by outcome",
		},
		[]string{"provider", "outcome"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Provider request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"provider"},
	)

	providerRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total number of provider request retries",
		},
		[]string{"provider"},
	)
)

// httpClient is the shared bounded-retry JSON transport used by every
// provider client.
type httpClient struct {
	name       string
	baseURL    string
	apiKey     string
	keyHeader  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	backoff    float64
	client     *http.Client
	logger     *zap.Logger
}

func newHTTPClient(name string, cfg config.ProviderConfig, retryDelay time.Duration, backoff float64, logger *zap.Logger) *httpClient {
	if backoff <= 0 {
		backoff = 1.5
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &httpClient{
		name:       name,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		backoff:    backoff,
		client:     &http.Client{},
		logger:     logger,
	}
}

// getJSON performs a GET against path, decoding the body into dest.
// Transport failures are retried with an increasing backoff delay;
// logical provider errors are returned immediately.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	delay := c.retryDelay
	var lastErr *Error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			providerRetriesTotal.WithLabelValues(c.name).Inc()
			c.logger.Warn("Retrying provider request",
				zap.String("provider", c.name),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return &Error{Provider: c.name, Kind: KindTransport, Err: ctx.Err()}
			}
			delay = time.Duration(float64(delay) * c.backoff)
		}

		err := c.doOnce(ctx, fullURL, dest)
		if err == nil {
			providerRequestsTotal.WithLabelValues(c.name, "ok").Inc()
			return nil
		}

		lastErr = err
		if err.Kind == KindLogical {
			providerRequestsTotal.WithLabelValues(c.name, "logical_error").Inc()
			return err
		}
		if ctx.Err() != nil {
			break
		}
	}

	providerRequestsTotal.WithLabelValues(c.name, "transport_error").Inc()
	return lastErr
}

func (c *httpClient) doOnce(ctx context.Context, fullURL string, dest interface{}) *Error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		providerRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &Error{Provider: c.name, Kind: KindLogical, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		header := c.keyHeader
		if header == "" {
			header = "Authorization"
		}
		value := c.apiKey
		if header == "Authorization" {
			value = "Bearer " + c.apiKey
		}
		req.Header.Set(header, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Provider: c.name, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &Error{Provider: c.name, Kind: KindTransport, Status: resp.StatusCode, Message: readBodyPrefix(resp.Body)}
	}
	if resp.StatusCode >= 400 {
		// Explicit provider error payload (not found, rate limit): not retried
		return &Error{Provider: c.name, Kind: KindLogical, Status: resp.StatusCode, Message: readBodyPrefix(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Provider: c.name, Kind: KindLogical, Status: resp.StatusCode, Message: "malformed payload", Err: err}
	}

	return nil
}

func readBodyPrefix(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}

// chainIDs maps network short codes to EVM chain ids used by the
// security analyzer API.
var chainIDs = map[string]string{
	"eth":       "1",
	"bsc":       "56",
	"polygon":   "137",
	"arbitrum":  "42161",
	"optimism":  "10",
	"base":      "8453",
	"avalanche": "43114",
	"fantom":    "250",
}

// ChainID returns the EVM chain id for a network short code, defaulting
// to mainnet.
func ChainID(network string) string {
	if id, ok := chainIDs[network]; ok {
		return id
	}
	return "1"
}

func parseUnixOrRFC3339(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
