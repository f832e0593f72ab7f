// Package inference is a thin client for a pretrained document
// understanding model served over HTTP.
//
// The model itself (a Donut-style sequence-to-sequence network) lives in a
// serving process that loads a checkpoint and exposes its inference method
// as a JSON endpoint. This client posts an image and a task prompt and
// returns the model's predictions. The prompt grammar is the tag-sequence
// format from the donut package; the serving side consumes it verbatim.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to one model serving endpoint.
type Client struct {
	ServerURL string // inference endpoint, e.g. http://localhost:8501/inference
	Model     string // pretrained model name or path, resolved by the server

	// HTTPClient is used for requests. Nil means a client with
	// DefaultTimeout.
	HTTPClient *http.Client
}

// DefaultTimeout bounds a single inference request.
const DefaultTimeout = 5 * time.Minute

// NewClient creates a client for a serving endpoint and model.
func NewClient(serverURL, model string) *Client {
	return &Client{ServerURL: serverURL, Model: model}
}

type request struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Image  string `json:"image"` // base64-encoded image bytes
}

// Result is the model's response: one prediction per beam, best first.
type Result struct {
	Predictions []json.RawMessage `json:"predictions"`
}

// Best returns the first prediction.
func (r Result) Best() (json.RawMessage, error) {
	if len(r.Predictions) == 0 {
		return nil, fmt.Errorf("model returned no predictions")
	}
	return r.Predictions[0], nil
}

// Infer posts an image and prompt to the serving endpoint and decodes the
// result.
func (c *Client) Infer(ctx context.Context, imageData []byte, prompt string) (*Result, error) {
	body, err := json.Marshal(request{
		Model:  c.Model,
		Prompt: prompt,
		Image:  base64.StdEncoding.EncodeToString(imageData),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServerURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference failed: status %d: %s", resp.StatusCode, string(detail))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	return &result, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}
