package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gravadigital/encuentro-api/internal/domain/sentiment"
)

// HTTPAnalyzer calls the hosted sentiment-analysis API. The remote contract
// takes a batch of documents and returns one prediction per document; we only
// ever send one.
type HTTPAnalyzer struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewHTTPAnalyzer creates an analyzer for the configured endpoint.
func NewHTTPAnalyzer(apiURL, apiKey string) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type analyzeRequest struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type analyzeResponse struct {
	Predictions []struct {
		Prediction  string  `json:"prediction"`
		Probability float64 `json:"probability"`
	} `json:"predictions"`
}

// Analyze sends the text to the remote API and returns its verdict.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	payload, err := json.Marshal([]analyzeRequest{{ID: "1", Language: "en", Text: text}})
	if err != nil {
		return sentiment.Result{}, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(payload))
	if err != nil {
		return sentiment.Result{}, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-Api-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return sentiment.Result{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sentiment.Result{}, fmt.Errorf("analysis API returned status %d", resp.StatusCode)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return sentiment.Result{}, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	if len(decoded.Predictions) == 0 {
		return sentiment.Result{}, fmt.Errorf("analysis API returned no predictions")
	}

	return sentiment.Result{
		Label: decoded.Predictions[0].Prediction,
		Score: decoded.Predictions[0].Probability,
	}, nil
}
