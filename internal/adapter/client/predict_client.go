package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ressKim-io/hatecheck/internal/domain/service"
)

// maxErrorBody bounds how much of a failed response is kept in the error
const maxErrorBody = 512

// PredictRequest represents a request to the prediction endpoint
type PredictRequest struct {
	Text string `json:"text"`
}

// PredictBatchRequest represents a request to the batch prediction endpoint
type PredictBatchRequest struct {
	Texts []string `json:"texts"`
}

// PredictResponse represents the response from the prediction endpoint
type PredictResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	InputText  string  `json:"input_text,omitempty"`
	ModelInfo  string  `json:"model_info,omitempty"`
}

// PredictBatchResponse represents the response from the batch prediction endpoint
type PredictBatchResponse struct {
	Results []PredictResponse `json:"results"`
	Count   int               `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ServiceInfo represents the classification service root document
type ServiceInfo struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Author  string `json:"author,omitempty"`
}

// PredictClient is an HTTP client for the hate speech classification service
type PredictClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictClient creates a new classification service client.
// A zero timeout leaves requests bounded only by their context.
func NewPredictClient(baseURL string, timeout time.Duration) *PredictClient {
	return &PredictClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends a single text for classification
func (c *PredictClient) Predict(ctx context.Context, text string) (*PredictResponse, error) {
	var result PredictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", PredictRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PredictBatch sends multiple texts for classification
func (c *PredictClient) PredictBatch(ctx context.Context, texts []string) (*PredictBatchResponse, error) {
	var result PredictBatchResponse
	if err := c.do(ctx, http.MethodPost, "/batch_predict", PredictBatchRequest{Texts: texts}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the classification service health
func (c *PredictClient) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Info fetches the classification service root document
func (c *PredictClient) Info(ctx context.Context) (*ServiceInfo, error) {
	var result ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PredictClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return &service.StatusError{StatusCode: resp.StatusCode}
		}
		return &service.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}

	return nil
}
