package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/scrape"
)

// backendClient lets the webhook drive the /freepik endpoint over HTTP, the
// same way any other front end would, instead of reaching into the pipeline
// directly.
type backendClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newBackendClient(baseURL, token string) *backendClient {
	return &backendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: config.WebhookTimeout},
	}
}

// fetchFileInfo POSTs the asset URL to the backend and returns the scraped
// file info. A non-200 answer yields (nil, nil): the asset genuinely could
// not be found. Transport errors are returned so the caller can fall back.
func (b *backendClient) fetchFileInfo(userID int64, assetURL string) (*scrape.FileInfo, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"url":     assetURL,
		"user_id": userID,
	})

	req, err := http.NewRequest("POST", b.baseURL+"/freepik", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var parsed struct {
		FileInfo *scrape.FileInfo `json:"file_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}
	return parsed.FileInfo, nil
}
