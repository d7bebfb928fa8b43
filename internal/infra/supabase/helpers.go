package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/boddenberg/rentease-api-go/internal/infra/resilience"

	"go.uber.org/zap"
)

// ============================================================
// HTTP helpers for GET, POST, PATCH, DELETE
// ============================================================

// doRequest executes an authenticated request to Supabase PostgREST and
// returns nil for empty answers (404, 204).
func (c *Client) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	status, body, err := c.send(ctx, method, c.restURL(path), nil, c.serviceRoleKey, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusNoContent {
		return nil, nil
	}
	if err := c.checkStatus(method, path, status, body); err != nil {
		return nil, err
	}
	return body, nil
}

// doPost inserts rows. prefer is appended to return=representation, e.g.
// "resolution=ignore-duplicates".
func (c *Client) doPost(ctx context.Context, path string, data any, prefer string) ([]byte, error) {
	p := "return=representation"
	if prefer != "" {
		p = prefer + "," + p
	}
	status, body, err := c.send(ctx, http.MethodPost, c.restURL(path), data, c.serviceRoleKey, p)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(http.MethodPost, path, status, body); err != nil {
		return nil, err
	}
	return body, nil
}

// doPatch updates the rows matched by path and returns them.
func (c *Client) doPatch(ctx context.Context, path string, data any) ([]byte, error) {
	status, body, err := c.send(ctx, http.MethodPatch, c.restURL(path), data, c.serviceRoleKey, "return=representation")
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(http.MethodPatch, path, status, body); err != nil {
		return nil, err
	}
	return body, nil
}

// doDelete removes the rows matched by path and returns them.
func (c *Client) doDelete(ctx context.Context, path string) ([]byte, error) {
	status, body, err := c.send(ctx, http.MethodDelete, c.restURL(path), nil, c.serviceRoleKey, "return=representation")
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(http.MethodDelete, path, status, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
}

func (c *Client) authURL(path string) string {
	return fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)
}

// send performs one HTTP round trip. bearer goes into Authorization; the
// apikey header always carries the anon key when set, else the bearer.
func (c *Client) send(ctx context.Context, method, url string, data any, bearer, prefer string) (int, []byte, error) {
	var reader io.Reader
	if data != nil {
		jsonBody, err := json.Marshal(data)
		if err != nil {
			return 0, nil, resilience.Permanent(err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return 0, nil, resilience.Permanent(err)
	}

	apiKey := c.apiKey
	if apiKey == "" {
		apiKey = c.serviceRoleKey
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", bearer))
	}
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		c.logger.Error("supabase: failed to read response body",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return 0, nil, err
	}

	c.logger.Debug("supabase: request done",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
	)
	return resp.StatusCode, body, nil
}

// checkStatus turns non-2xx answers into errors. 4xx answers are permanent:
// retrying them cannot succeed.
func (c *Client) checkStatus(method, path string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	c.logger.Warn("supabase: non-2xx response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("body", string(body)),
	)
	err := &statusError{Status: status, Body: string(body)}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return resilience.Permanent(err)
	}
	return err
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countRows reports the length of a JSON array representation.
func countRows(body []byte) (int64, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return 0, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("decode representation: %w", err)
	}
	return int64(len(rows)), nil
}
