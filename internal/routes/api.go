// Package routes holds the HTTP entry points: the asset pipeline endpoint,
// the history listing and the Telegram webhook.
package routes

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/avlukashin/pikgrab/internal/fetch"
	"github.com/avlukashin/pikgrab/internal/middleware"
	"github.com/avlukashin/pikgrab/internal/scrape"
	"github.com/avlukashin/pikgrab/internal/store"
	"github.com/avlukashin/pikgrab/internal/telegram"
)

// Recorder is the slice of the store the handlers need.
type Recorder interface {
	Record(ctx context.Context, req *store.DownloadRequest) int64
	History(ctx context.Context, userID int64) []store.DownloadRequest
}

// Uploader pushes retrieved bytes to object storage and returns the public
// URL, or "" when the upload could not happen.
type Uploader interface {
	Upload(ctx context.Context, data []byte, title, format string) string
}

// API wires the pipeline components behind the handlers. Fetch and Retrieve
// default to the real implementations; tests swap them for stubs.
type API struct {
	Store    Recorder
	Storage  Uploader
	Telegram *telegram.Client
	Backend  *backendClient

	Fetch    func(ctx context.Context, url string) (string, error)
	Retrieve func(ctx context.Context, url string, limit int64) []byte

	DB interface{ HealthCheck(context.Context) error }
}

func (a *API) Routes(r chi.Router) {
	r.Get("/health", a.handleHealth)
	r.With(middleware.RequireToken).Post("/freepik", a.handleCreate)
	r.With(middleware.RequireToken).Get("/freepik", a.handleHistory)
	r.Post("/telegram", a.handleWebhook)
}

func (a *API) fetchPage(ctx context.Context, url string) (string, error) {
	if a.Fetch != nil {
		return a.Fetch(ctx, url)
	}
	return scrape.FetchPage(ctx, url)
}

func (a *API) retrieveFile(ctx context.Context, url string, limit int64) []byte {
	if a.Retrieve != nil {
		return a.Retrieve(ctx, url, limit)
	}
	return fetch.Retrieve(ctx, url, limit)
}
