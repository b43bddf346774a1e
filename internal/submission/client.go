package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dErrors "leadgate/pkg/domainerrors"
)

// Submitter delivers a mapped payload to the finance API.
type Submitter interface {
	Submit(ctx context.Context, p *Payload) (json.RawMessage, error)
}

// Client talks to the AutoConvert submission API. The API key never leaves
// this process; callers hand over payloads, not credentials.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewClient builds a Client for the given base URL and key.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Submit posts the payload. Non-2xx responses and transport failures come
// back as upstream errors; the response body is logged but the upstream's
// words are never relayed to the applicant.
func (c *Client) Submit(ctx context.Context, p *Payload) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "submission API key not configured")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode submission")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/application/submit", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build submission request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ApiKey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "finance provider unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "read finance provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("submission rejected",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("finance provider returned %d", resp.StatusCode))
	}

	c.logger.Info("submission accepted", "status", resp.StatusCode)
	return json.RawMessage(respBody), nil
}
