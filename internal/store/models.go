package store

import "time"

// Row statuses. Rows are append-only; the status is fixed at insert time.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// DownloadRequest is one recorded download attempt.
type DownloadRequest struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"-"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Format       string    `json:"format"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"`
	Status       string    `json:"status"`
	DownloadedAt time.Time `json:"downloaded_at"`
}
