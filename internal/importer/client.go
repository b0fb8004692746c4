package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/gymlog/internal/models"
)

// Client sends historical sets to the GymLog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the GymLog import endpoint.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendSets POSTs a batch of historical sets to the import endpoint.
// Network errors and 5xx responses are retried up to 3 times with
// exponential backoff; 4xx rejections (other than 429) fail immediately.
func (c *Client) SendSets(sets []models.SetImport) error {
	data, err := json.Marshal(map[string]any{"sets": sets})
	if err != nil {
		return fmt.Errorf("marshaling sets: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/import/", bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			return nil
		}
		lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, body)
		// A 4xx rejection (bad payload, bad key) will not change on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return lastErr
		}
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}
