package testdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/pkg/logger"
)

const defaultClientTimeout = 30 * time.Second

// Client submits generated records to a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// SubmitStats counts submission outcomes.
type SubmitStats struct {
	Accepted  int
	Duplicate int
	Failed    int
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Health checks that the server answers on /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// PostRecord submits one record and reports whether the server had seen it.
func (c *Client) PostRecord(ctx context.Context, rec model.RawRecord) (bool, error) {
	var ack ackResponse
	status, err := c.post(ctx, "/records", rec, &ack)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusAccepted:
		return false, nil
	case http.StatusOK:
		return true, nil
	default:
		return false, fmt.Errorf("submit team %d match %d: status %d", rec.Team, rec.Match, status)
	}
}

// Refresh asks the server to rerun the pipeline and returns its status
// ("queued" or "coalesced").
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var ack ackResponse
	status, err := c.post(ctx, "/refresh", map[string]string{"reason": "seed"}, &ack)
	if err != nil {
		return "", err
	}
	if status != http.StatusAccepted {
		return "", fmt.Errorf("refresh: status %d", status)
	}
	return ack.Status, nil
}

// Submit posts records with a pool of workers.
func (c *Client) Submit(ctx context.Context, records []model.RawRecord, workers int) SubmitStats {
	if workers <= 0 {
		workers = 1
	}
	var accepted, duplicate, failed atomic.Int64

	ch := make(chan model.RawRecord, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range ch {
				dup, err := c.PostRecord(ctx, rec)
				switch {
				case err != nil:
					failed.Add(1)
					logger.Get().Debug(ctx, "submission failed", logger.Int("team", rec.Team), logger.Error(err))
				case dup:
					duplicate.Add(1)
				default:
					accepted.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			case ch <- rec:
			}
		}
	}()
	wg.Wait()

	return SubmitStats{
		Accepted:  int(accepted.Load()),
		Duplicate: int(duplicate.Load()),
		Failed:    int(failed.Load()),
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if out != nil && len(data) > 0 {
		_ = json.Unmarshal(data, out)
	}
	return resp.StatusCode, nil
}
