// Package client is the data-access facade used by front ends and tools to
// talk to the RentEase API. It composes URLs, attaches the session's bearer
// token and translates failures into a small set of errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API returned status %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to one RentEase API. Calls are not retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    Session
	logger     *zap.Logger

	Auth       *AuthAPI
	Properties *PropertiesAPI
	Rentals    *RentalsAPI
	Saved      *SavedAPI
	Contact    *ContactAPI
}

// New creates a Client for baseURL (for example http://localhost:3001/api).
// A nil session is replaced with an in-memory one.
func New(httpClient *http.Client, baseURL string, session Session, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if session == nil {
		session = NewMemorySession()
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		logger:     logger,
	}
	c.Auth = &AuthAPI{c: c}
	c.Properties = &PropertiesAPI{c: c}
	c.Rentals = &RentalsAPI{c: c}
	c.Saved = &SavedAPI{c: c}
	c.Contact = &ContactAPI{c: c}
	return c
}

// Session returns the credential store the client was built with.
func (c *Client) Session() Session { return c.session }

// CheckHealth calls GET /health.
func (c *Client) CheckHealth(ctx context.Context) (*domain.APIHealth, error) {
	var h domain.APIHealth
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do performs one request. Transport failures become *domain.ErrUnreachable
// and non-2xx answers become *APIError with the server's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, span := tracer.Start(ctx, "Client."+method)
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api unreachable", zap.String("base_url", c.baseURL), zap.Error(err))
		return &domain.ErrUnreachable{BaseURL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
