package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	igerrors "igrelay/pkg/errors"
	"igrelay/pkg/logger"
)

// bodyPreviewLimit bounds how much of an upstream body is logged
const bodyPreviewLimit = 200

// Client issues single, unretried GET requests to Instagram
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new Instagram API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// NewClientWithHTTP wraps an existing http.Client
func NewClientWithHTTP(httpClient *http.Client, log logger.Logger) *Client {
	c := NewClient(0, log)
	c.httpClient = httpClient
	return c
}

// Fetch performs one GET and returns the body of a 2xx response.
// Non-2xx responses yield an *errors.Error carrying the status and body;
// transport failures yield a network error with code 0.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, igerrors.NewNetworkError(err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, igerrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, igerrors.NewNetworkError(fmt.Errorf("failed to read response body: %w", err))
	}

	fields := map[string]interface{}{
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fields["status_text"] = http.StatusText(resp.StatusCode)
		fields["body"] = preview(body)
		if resp.StatusCode >= 500 {
			c.logger.ErrorWithFields("upstream returned error status", fields)
		} else {
			c.logger.WarnWithFields("upstream returned error status", fields)
		}
		return nil, igerrors.NewStatusError(resp.StatusCode, body)
	}

	c.logger.DebugWithFields("HTTP request completed", fields)
	return body, nil
}

// FetchJSON performs Fetch and decodes the body into target.
// A body that is not valid JSON for target is a parsing error.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, headers http.Header, target interface{}) error {
	body, err := c.Fetch(ctx, rawURL, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawURL,
			"error":        err.Error(),
			"body_preview": preview(body),
		})
		return igerrors.NewParsingError(http.StatusOK, err)
	}

	return nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > bodyPreviewLimit {
		s = s[:bodyPreviewLimit] + "..."
	}
	return s
}
