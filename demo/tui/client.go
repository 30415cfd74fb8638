package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StudioClient is a thin HTTP client for the studio API
type StudioClient struct {
	baseURL string
	client  *http.Client
}

// NewStudioClient creates a new studio client
func NewStudioClient(baseURL string) *StudioClient {
	return &StudioClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// StartProduction launches a production run and returns its ID
func (c *StudioClient) StartProduction(brief string, age int, movieMode bool, sceneCount int) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"userId":     "demo",
		"brief":      brief,
		"age":        age,
		"movieMode":  movieMode,
		"sceneCount": sceneCount,
	})
	if err != nil {
		return "", err
	}
	resp, err := c.client.Post(c.baseURL+"/api/productions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to start production: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var started struct {
		RunID string `json:"runId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return started.RunID, nil
}

// GetRun fetches the current status of a production run
func (c *StudioClient) GetRun(runID string) (*RunStatus, error) {
	resp, err := c.client.Get(c.baseURL + "/api/productions/" + runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var status RunStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &status, nil
}

// CancelRun aborts a production run
func (c *StudioClient) CancelRun(runID string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/productions/"+runID, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to cancel run: %w", err)
	}
	defer resp.Body.Close()
	return nil
}
