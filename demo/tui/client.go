package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vidcheck/types"
)

// AnalysisClient is a thin HTTP client for the vidcheck API
type AnalysisClient struct {
	baseURL string
	client  *http.Client
}

// NewAnalysisClient creates a new API client
func NewAnalysisClient(baseURL string) *AnalysisClient {
	return &AnalysisClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Start kicks off an asynchronous analysis and returns the run id
func (c *AnalysisClient) Start(req types.AnalysisRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Post(c.baseURL+"/api/analyze/start", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to start analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return parsed.RunID, nil
}

// GetRun fetches the current run record
func (c *AnalysisClient) GetRun(runID string) (*types.RunRecord, error) {
	resp, err := c.client.Get(c.baseURL + "/api/runs/" + runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var record types.RunRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &record, nil
}
