package store

import (
	"context"
	"log"

	"github.com/avlukashin/pikgrab/internal/alerts"
	"github.com/avlukashin/pikgrab/internal/config"
)

// Downloads records download attempts and serves per-user history.
type Downloads struct {
	db *DB
}

func NewDownloads(db *DB) *Downloads {
	return &Downloads{db: db}
}

// Record inserts one row and returns its id. Persistence failures are logged
// and swallowed: the pipeline result has already been produced and a lost log
// row shouldn't fail the request. Returns 0 when nothing was written.
func (d *Downloads) Record(ctx context.Context, req *DownloadRequest) int64 {
	if d == nil || d.db == nil {
		return 0
	}

	var id int64
	err := d.db.Pool.QueryRow(ctx, `
		INSERT INTO downloads (user_id, freepik_url, file_title, file_format, thumbnail_url, download_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		req.UserID,
		req.URL,
		req.Title,
		req.Format,
		req.Thumbnail,
		req.DownloadURL,
		req.Status,
	).Scan(&id)
	if err != nil {
		log.Printf("[Store] failed to record download: %v", err)
		alerts.DatabaseError("record", err)
		return 0
	}
	return id
}

// History returns the most recent rows for a user, newest first. Any failure
// yields an empty slice, indistinguishable from no history.
func (d *Downloads) History(ctx context.Context, userID int64) []DownloadRequest {
	history := []DownloadRequest{}
	if d == nil || d.db == nil {
		return history
	}

	rows, err := d.db.Pool.Query(ctx, `
		SELECT id, user_id, freepik_url, COALESCE(file_title, ''), COALESCE(file_format, ''),
		       COALESCE(thumbnail_url, ''), COALESCE(download_url, ''), status, downloaded_at
		FROM downloads
		WHERE user_id = $1
		ORDER BY downloaded_at DESC
		LIMIT $2
	`, userID, config.HistoryLimit)
	if err != nil {
		log.Printf("[Store] failed to query history: %v", err)
		alerts.DatabaseError("history", err)
		return history
	}
	defer rows.Close()

	for rows.Next() {
		var r DownloadRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.URL, &r.Title, &r.Format,
			&r.Thumbnail, &r.DownloadURL, &r.Status, &r.DownloadedAt); err != nil {
			log.Printf("[Store] failed to scan history row: %v", err)
			return []DownloadRequest{}
		}
		history = append(history, r)
	}
	if rows.Err() != nil {
		log.Printf("[Store] history rows: %v", rows.Err())
		return []DownloadRequest{}
	}
	return history
}
