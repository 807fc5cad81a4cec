package bot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type apiClient struct {
	baseURL string
	token   string
	client  *http.Client
}

type fileInfo struct {
	Title            string   `json:"title"`
	Thumbnail        string   `json:"thumbnail"`
	AvailableFormats []string `json:"available_formats"`
	SourceURL        string   `json:"source_url"`
}

type grabResponse struct {
	Success     bool      `json:"success"`
	FileInfo    *fileInfo `json:"file_info"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	DownloadID  int64     `json:"download_id"`
	Message     string    `json:"message"`
	Error       string    `json:"error"`
}

type historyEntry struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Format       string `json:"format"`
	DownloadURL  string `json:"download_url"`
	Status       string `json:"status"`
	DownloadedAt string `json:"downloaded_at"`
}

type historyResponse struct {
	History []historyEntry `json:"history"`
	Error   string         `json:"error"`
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (a *apiClient) doJSON(method, path string, body interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

func (a *apiClient) grab(rawURL, format string, userID int64) (*grabResponse, error) {
	body := map[string]interface{}{
		"url":     rawURL,
		"format":  format,
		"user_id": userID,
	}

	data, status, err := a.doJSON("POST", "/freepik", body)
	if err != nil {
		return nil, err
	}

	var resp grabResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if status != 200 {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, fmt.Errorf("HTTP %d", status)
	}
	return &resp, nil
}

func (a *apiClient) history(userID int64) ([]historyEntry, error) {
	data, status, err := a.doJSON("GET", fmt.Sprintf("/freepik?user_id=%d", userID), nil)
	if err != nil {
		return nil, err
	}

	var resp historyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	if status != 200 {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, fmt.Errorf("HTTP %d", status)
	}
	return resp.History, nil
}
