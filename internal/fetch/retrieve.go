// Package fetch pulls resolved asset bytes with a hard size ceiling.
package fetch

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"

	"github.com/avlukashin/pikgrab/internal/config"
)

var retrieveClient = &http.Client{Timeout: config.RetrieveTimeout}

const chunkSize = 32 * 1024

// Retrieve streams the URL's body into memory, giving up once more than limit
// bytes arrive. Any failure returns nil; partial files are never surfaced.
func Retrieve(ctx context.Context, rawURL string, limit int64) []byte {
	if rawURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil
	}
	for k, v := range config.BrowserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := retrieveClient.Do(req)
	if err != nil {
		log.Printf("[Retrieve] %s: %v", rawURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Retrieve] %s: HTTP %d", rawURL, resp.StatusCode)
		return nil
	}

	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if int64(buf.Len()) > limit {
				log.Printf("[Retrieve] %s exceeds %d byte limit, aborting", rawURL, limit)
				return nil
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[Retrieve] %s: read failed: %v", rawURL, err)
			return nil
		}
	}
	return buf.Bytes()
}
