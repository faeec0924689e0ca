package loadgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/footprint/internal/domain/model"
)

// Outcome of a single submission.
type Outcome int

// Submission outcomes.
const (
	OutcomeFailed Outcome = iota
	OutcomeAccepted
	OutcomeDuplicate
)

// Client talks to the footprint HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Healthy checks that the metrics endpoint answers 200.
func (c *Client) Healthy(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// Submit posts one submission.
func (c *Client) Submit(ctx context.Context, sub model.Submission) (Outcome, error) { //nolint:gocritic // hugeParam
	body, err := json.Marshal(sub)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("marshal submission: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/footprints", body)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()

	var receipt model.Receipt
	switch resp.StatusCode {
	case http.StatusAccepted:
		return OutcomeAccepted, nil
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&receipt); err == nil && !receipt.Duplicate {
			return OutcomeAccepted, nil
		}
		return OutcomeDuplicate, nil
	default:
		return OutcomeFailed, statusError(resp)
	}
}

// Processed reads the processed counter from /stats.
func (c *Client) Processed(ctx context.Context) (int64, error) {
	var stats struct {
		Processed int64 `json:"processed"`
	}
	if err := c.getJSON(ctx, "/stats", &stats); err != nil {
		return 0, err
	}
	return stats.Processed, nil
}

// Rank fetches an employee's leaderboard entry.
func (c *Client) Rank(ctx context.Context, employeeID string) (model.Ranked, error) {
	var entry model.Ranked
	err := c.getJSON(ctx, "/rank/"+url.PathEscape(employeeID), &entry)
	return entry, err
}

// Leaderboard fetches the top n entries.
func (c *Client) Leaderboard(ctx context.Context, n int) ([]model.Ranked, error) {
	var entries []model.Ranked
	err := c.getJSON(ctx, "/leaderboard?limit="+strconv.Itoa(n), &entries)
	return entries, err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
}
