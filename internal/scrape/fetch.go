package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/avlukashin/pikgrab/internal/config"
)

// FetchError reports a failed page fetch. Status is zero when the failure
// happened before a response arrived.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

var pageClient = &http.Client{Timeout: config.FetchTimeout}

// FetchPage issues a browser-like GET against the asset page and returns the
// raw HTML. No retries; a page that blocks scrapers just fails.
func FetchPage(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	for k, v := range config.BrowserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := pageClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	return string(body), nil
}
