package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/avlukashin/pikgrab/internal/alerts"
	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/scrape"
	"github.com/avlukashin/pikgrab/internal/store"
	"github.com/avlukashin/pikgrab/internal/util"
)

type createRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
	UserID int64  `json:"user_id"`
}

type createResponse struct {
	Success     bool             `json:"success"`
	FileInfo    *scrape.FileInfo `json:"file_info"`
	Format      string           `json:"format"`
	DownloadURL string           `json:"download_url"`
	DownloadID  int64            `json:"download_id"`
	Message     string           `json:"message"`
}

// handleCreate runs the whole pipeline for one asset page: fetch, extract,
// resolve, retrieve, upload, record.
func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	// Malformed bodies degrade to an empty request; the URL check below
	// produces the user-facing error.
	json.NewDecoder(r.Body).Decode(&req)

	rawURL := strings.TrimSpace(req.URL)
	format := strings.ToUpper(orDefault(req.Format, "PNG"))

	if rawURL == "" {
		respondJSON(w, 400, map[string]string{"error": "URL is required"})
		return
	}
	if check := util.ValidateAssetURL(rawURL); !check.Valid {
		respondJSON(w, 400, map[string]string{"error": check.Error})
		return
	}

	ctx := r.Context()

	html, err := a.fetchPage(ctx, rawURL)
	if err != nil {
		log.Printf("[Scrape] %v", err)
		alerts.ScrapeFailed(rawURL, err)
		respondJSON(w, 404, map[string]string{"error": "Failed to get file information"})
		return
	}

	doc, err := scrape.ParseDocument(html)
	if err != nil {
		log.Printf("[Scrape] parse %s: %v", rawURL, err)
		respondJSON(w, 404, map[string]string{"error": "Failed to get file information"})
		return
	}

	info := scrape.Extract(doc, rawURL)
	resolved := scrape.ResolveDownloadURL(doc, rawURL, format)

	// Graceful degradation: when no direct asset can be retrieved and
	// re-hosted, the thumbnail stands in as the download URL.
	downloadURL := info.Thumbnail
	if resolved != "" {
		if data := a.retrieveFile(ctx, resolved, config.MaxFileSize); data != nil && a.Storage != nil {
			if stored := a.Storage.Upload(ctx, data, info.Title, format); stored != "" {
				downloadURL = stored
			}
		}
	}
	info.DownloadURL = downloadURL

	var downloadID int64
	if a.Store != nil {
		downloadID = a.Store.Record(ctx, &store.DownloadRequest{
			UserID:      req.UserID,
			URL:         rawURL,
			Title:       info.Title,
			Format:      format,
			Thumbnail:   info.Thumbnail,
			DownloadURL: downloadURL,
			Status:      store.StatusCompleted,
		})
	}

	respondJSON(w, 200, createResponse{
		Success:     true,
		FileInfo:    info,
		Format:      format,
		DownloadURL: downloadURL,
		DownloadID:  downloadID,
		Message:     fmt.Sprintf("File is ready to download in %s format", format),
	})
}

// handleHistory lists the most recent download attempts for a user. Failures
// inside the store already degrade to an empty list.
func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(orDefault(r.URL.Query().Get("user_id"), "0"), 10, 64)

	history := []store.DownloadRequest{}
	if a.Store != nil {
		history = a.Store.History(r.Context(), userID)
	}
	respondJSON(w, 200, map[string]interface{}{"history": history})
}
