// Package supabase provides a client for Supabase (PostgREST + GoTrue).
// It implements the persistence ports over the REST API and the identity
// provider over the auth API.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

const backendName = "supabase"

// Client wraps HTTP calls to the Supabase REST and auth APIs.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewClient creates a Supabase client. apiKey is the anon key used for
// GoTrue calls; serviceRoleKey authorizes PostgREST table access.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		metrics:        metrics,
		logger:         logger,
	}
}

// statusError is a non-2xx answer from Supabase.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("supabase returned status %d: %s", e.Status, e.Body)
}

// read runs an idempotent GET behind the circuit breaker with retries and
// decodes the JSON body into out. Client errors are not retried.
func (c *Client) read(ctx context.Context, service, path string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}
			if body == nil {
				body = []byte("[]")
			}
			if err := json.Unmarshal(body, out); err != nil {
				return resilience.Permanent(fmt.Errorf("decode %s: %w", service, err))
			}
			return nil
		})
	})
	return c.wrap(service, err)
}

// write runs a mutation behind the circuit breaker only. Writes are never
// retried because PostgREST inserts are not idempotent.
func (c *Client) write(ctx context.Context, service string, fn func(ctx context.Context) error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return c.wrap(service, err)
}

func (c *Client) wrap(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.IncrStoreError(backendName)
		return &domain.ErrCircuitOpen{Service: backendName}
	}

	// Definitive answers pass through unwrapped.
	var nf *domain.ErrNotFound
	if errors.As(err, &nf) {
		return nf
	}
	var exists *domain.ErrAlreadyExists
	if errors.As(err, &exists) {
		return exists
	}
	var unauthorized *domain.ErrUnauthorized
	if errors.As(err, &unauthorized) {
		return unauthorized
	}
	var invalid *domain.ErrValidation
	if errors.As(err, &invalid) {
		return invalid
	}

	c.metrics.IncrStoreError(backendName)
	return &domain.ErrExternalService{Service: "supabase/" + service, Err: err}
}

// Ping verifies PostgREST answers with the service key.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Supabase.Ping")
	defer span.End()

	_, err := c.doRequest(ctx, http.MethodGet, "properties?select=id&limit=1")
	return err
}
