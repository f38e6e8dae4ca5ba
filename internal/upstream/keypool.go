package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/domain"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/metrics"
)

// Fetcher performs an authenticated GET against an upstream JSON API.
// Failures are always *domain.APIError.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (json.RawMessage, error)
}

// KeyPool tries an ordered list of API keys against one URL. It moves on to
// the next key only when a key is rejected (401, 403, 429) or the transport
// fails. Other statuses end the request immediately.
type KeyPool struct {
	keys      []string
	client    *http.Client
	keyHeader string
	limiter   *rate.Limiter
	timeout   time.Duration
	name      string
}

var _ Fetcher = (*KeyPool)(nil)

// Option configures a KeyPool.
type Option func(*KeyPool)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *KeyPool) { p.client = c }
}

// WithKeyHeader sets the header that carries the API key.
func WithKeyHeader(header string) Option {
	return func(p *KeyPool) { p.keyHeader = header }
}

// WithLimiter makes every attempt wait on a shared outbound limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *KeyPool) { p.limiter = l }
}

// WithTimeout bounds each attempt. Zero disables the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *KeyPool) { p.timeout = d }
}

// WithName sets the upstream label used in metrics and logs.
func WithName(name string) Option {
	return func(p *KeyPool) { p.name = name }
}

// NewKeyPool creates a KeyPool. Blank keys are dropped.
func NewKeyPool(keys []string, opts ...Option) *KeyPool {
	p := &KeyPool{
		client:    &http.Client{},
		keyHeader: DefaultKeyHeader,
		timeout:   DefaultTimeout,
		name:      DefaultName,
	}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of usable keys.
func (p *KeyPool) Size() int {
	return len(p.keys)
}

// Get fetches url, rotating through the key list as described on KeyPool.
// The same key is never tried twice.
func (p *KeyPool) Get(ctx context.Context, url string, headers map[string]string) (json.RawMessage, error) {
	if len(p.keys) == 0 {
		return nil, domain.NewAPIError(domain.ErrorTypeAuth, domain.ErrMsgNoAPIKeys)
	}

	log := logger.FromContext(ctx)
	for i, key := range p.keys {
		last := i == len(p.keys)-1

		status, body, err := p.attempt(ctx, url, key, headers)
		if err != nil {
			p.record(metrics.OutcomeNetwork)
			log.Warn(LogMsgTransportFailure, "upstream", p.name, "attempt", i+1, "error", err)
			if ctx.Err() != nil || last {
				return nil, networkError()
			}
			p.rotate()
			continue
		}

		if status >= 200 && status < 300 {
			if !json.Valid(body) {
				p.record(metrics.OutcomeInvalidJSON)
				log.Warn(LogMsgInvalidJSON, "upstream", p.name, "attempt", i+1)
				if last {
					return nil, networkError()
				}
				p.rotate()
				continue
			}
			p.record(metrics.OutcomeSuccess)
			return body, nil
		}

		apiErr := classifyStatus(status)
		p.record(string(apiErr.Type))
		if isCredentialRejection(status) && !last {
			log.Info(LogMsgRotatingCredential, "upstream", p.name, "attempt", i+1, "status", status)
			p.rotate()
			continue
		}
		log.Warn(LogMsgUpstreamError, "upstream", p.name, "status", status, "type", apiErr.Type)
		return nil, apiErr
	}

	// Unreachable: the loop always returns on the last key.
	return nil, domain.NewAPIError(domain.ErrorTypeAuth, domain.ErrMsgNoAPIKeys)
}

// attempt performs one GET with one key. A non-nil error means no usable
// response was received.
func (p *KeyPool) attempt(ctx context.Context, url, key string, headers map[string]string) (int, []byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(p.keyHeader, key)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadBody, err)
	}
	return resp.StatusCode, body, nil
}

func (p *KeyPool) rotate() {
	metrics.CredentialRotations.WithLabelValues(p.name).Inc()
}

func (p *KeyPool) record(outcome string) {
	metrics.UpstreamRequestsTotal.WithLabelValues(p.name, outcome).Inc()
}

func isCredentialRejection(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests
}

// classifyStatus maps a non-2xx upstream status onto the error taxonomy.
func classifyStatus(status int) *domain.APIError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewAPIError(domain.ErrorTypeAuth, domain.ErrMsgAuthFailure)
	case http.StatusNotFound:
		return domain.NewAPIError(domain.ErrorTypeNotFound, domain.ErrMsgGamertagNotFound)
	case http.StatusTooManyRequests:
		return domain.NewAPIError(domain.ErrorTypeRateLimit, domain.ErrMsgRateLimited)
	default:
		return domain.NewAPIError(domain.ErrorTypeUnknown, fmt.Sprintf(domain.ErrMsgUnexpectedStatus, status))
	}
}

func networkError() *domain.APIError {
	return domain.NewAPIError(domain.ErrorTypeNetwork, domain.ErrMsgHaloUnreachable)
}
