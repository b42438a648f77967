package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"FakeNewsFeatures/internal/domain"
	"FakeNewsFeatures/internal/ports"
)

const defaultBatchSize = 256

// Client talks to the external baseline classifier over HTTP.
type Client struct {
	endpoint  string
	apiKey    string
	batchSize int
	http      *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client. batchSize caps rows per request.
func NewClient(endpoint, apiKey string, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		apiKey:    apiKey,
		batchSize: batchSize,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions []domain.Classification `json:"predictions"`
}

// Classify posts the model-input columns of rows to /predict in batches and
// returns one classification per row, in order.
func (c *Client) Classify(ctx context.Context, rows []domain.FeatureRow) ([]domain.Classification, error) {
	out := make([]domain.Classification, 0, len(rows))
	for start := 0; start < len(rows); start += c.batchSize {
		end := min(start+c.batchSize, len(rows))

		payload := predictRequest{
			Columns: domain.ModelInputColumns,
			Rows:    make([][]float64, 0, end-start),
		}
		for _, row := range rows[start:end] {
			payload.Rows = append(payload.Rows, row.ModelInputs())
		}

		var resp predictResponse
		if err := c.post(ctx, "/predict", payload, &resp); err != nil {
			return nil, fmt.Errorf("classify rows %d-%d: %w", start, end, err)
		}
		if len(resp.Predictions) != end-start {
			return nil, fmt.Errorf("classify rows %d-%d: got %d predictions for %d rows",
				start, end, len(resp.Predictions), end-start)
		}
		out = append(out, resp.Predictions...)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
