package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"goflare.io/ticketpal/config"
)

var ErrWorkerUnavailable = errors.New("worker service unavailable")

// Job is a request for the automation worker to run a challenge.
type Job struct {
	TicketID string          `json:"ticketId"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type jobResponse struct {
	JobID string `json:"jobId"`
}

// Submitter hands jobs to the worker service.
type Submitter interface {
	Submit(ctx context.Context, job Job) (string, error)
}

var _ Submitter = (*Client)(nil)

// Client talks to the worker service over HTTP. Requests are signed with the
// shared worker secret.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Worker.BaseURL, "/"),
		secret:     cfg.Worker.Secret,
		httpClient: &http.Client{Timeout: cfg.Worker.Timeout},
	}
}

// Submit posts job to the worker and returns the job ID it was assigned.
func (c *Client) Submit(ctx context.Context, job Job) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: base url not configured", ErrWorkerUnavailable)
	}

	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(c.secret, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", ErrWorkerUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out jobResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode job response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("%w: empty job id", ErrWorkerUnavailable)
	}

	return out.JobID, nil
}
