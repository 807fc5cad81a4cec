package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/avlukashin/pikgrab/internal/store"
)

// memStore is an in-memory Recorder for handler tests.
type memStore struct {
	rows []store.DownloadRequest
}

func (m *memStore) Record(_ context.Context, req *store.DownloadRequest) int64 {
	r := *req
	r.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, r)
	return r.ID
}

func (m *memStore) History(_ context.Context, userID int64) []store.DownloadRequest {
	out := []store.DownloadRequest{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			out = append(out, m.rows[i])
		}
	}
	return out
}

type stubUploader struct {
	url string
}

func (s *stubUploader) Upload(_ context.Context, data []byte, title, format string) string {
	return s.url
}

func newTestAPI(html string, fetchErr error) (*API, *memStore) {
	ms := &memStore{}
	api := &API{
		Store: ms,
		Fetch: func(_ context.Context, _ string) (string, error) {
			return html, fetchErr
		},
		Retrieve: func(_ context.Context, _ string, _ int64) []byte {
			return nil
		},
	}
	return api, ms
}

func serve(api *API, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	api.Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, api *API, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/freepik", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(api, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, parsed
}

func TestHandleCreate(t *testing.T) {
	t.Run("missing URL", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec, body := postJSON(t, api, `{}`)
		if rec.Code != 400 {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if body["error"] == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("malformed body degrades to missing URL", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec, _ := postJSON(t, api, `{not json`)
		if rec.Code != 400 {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unrecognized host", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec, _ := postJSON(t, api, `{"url":"https://example.com/x"}`)
		if rec.Code != 400 {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("fetch failure maps to 404", func(t *testing.T) {
		api, _ := newTestAPI("", context.DeadlineExceeded)
		rec, _ := postJSON(t, api, `{"url":"https://www.freepik.com/foo"}`)
		if rec.Code != 404 {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("end to end with degradation to thumbnail", func(t *testing.T) {
		html := `<html><body><h1>Cool Asset</h1><img class="preview" src="http://x/thumb.png"></body></html>`
		api, ms := newTestAPI(html, nil)

		rec, body := postJSON(t, api, `{"url":"https://www.freepik.com/foo","format":"jpg","user_id":5}`)
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		info, ok := body["file_info"].(map[string]interface{})
		if !ok {
			t.Fatalf("missing file_info in %v", body)
		}
		if info["title"] != "Cool Asset" {
			t.Errorf("expected title Cool Asset, got %v", info["title"])
		}
		if info["thumbnail"] != "http://x/thumb.png" {
			t.Errorf("expected thumbnail, got %v", info["thumbnail"])
		}
		if body["format"] != "JPG" {
			t.Errorf("expected uppercased format, got %v", body["format"])
		}
		// No direct asset resolvable: download_url degrades to the thumbnail.
		if body["download_url"] != "http://x/thumb.png" {
			t.Errorf("expected thumbnail as download_url, got %v", body["download_url"])
		}
		if body["download_id"] != float64(1) {
			t.Errorf("expected download_id 1, got %v", body["download_id"])
		}

		if len(ms.rows) != 1 {
			t.Fatalf("expected 1 recorded row, got %d", len(ms.rows))
		}
		row := ms.rows[0]
		if row.Status != store.StatusCompleted {
			t.Errorf("expected status completed, got %q", row.Status)
		}
		if row.UserID != 5 || row.Format != "JPG" {
			t.Errorf("row fields wrong: %+v", row)
		}
	})

	t.Run("resolved asset is uploaded and wins", func(t *testing.T) {
		html := `<html><body><h1>Pack</h1>
			<img class="preview" src="http://x/thumb.png">
			<a href="/download/abc">Download</a></body></html>`
		api, _ := newTestAPI(html, nil)
		api.Retrieve = func(_ context.Context, url string, _ int64) []byte {
			if url != "https://www.freepik.com/download/abc" {
				t.Errorf("unexpected retrieve URL %q", url)
			}
			return []byte("bytes")
		}
		api.Storage = &stubUploader{url: "https://cdn.pikgrab.io/assets/pack-abc.png"}

		_, body := postJSON(t, api, `{"url":"https://www.freepik.com/foo"}`)
		if body["download_url"] != "https://cdn.pikgrab.io/assets/pack-abc.png" {
			t.Errorf("expected stored URL, got %v", body["download_url"])
		}
	})

	t.Run("response keys are present even when empty", func(t *testing.T) {
		// No thumbnail, no resolvable asset, no store: download_url and
		// download_id stay in the envelope as zero values.
		api, _ := newTestAPI(`<html><body><h1>Bare</h1></body></html>`, nil)
		api.Store = nil

		rec, _ := postJSON(t, api, `{"url":"https://www.freepik.com/foo"}`)
		raw := rec.Body.String()
		if !strings.Contains(raw, `"download_url":""`) {
			t.Errorf("expected download_url key in %s", raw)
		}
		if !strings.Contains(raw, `"download_id":0`) {
			t.Errorf("expected download_id key in %s", raw)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec := serve(api, httptest.NewRequest("PUT", "/freepik", nil))
		if rec.Code != 405 {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleHistory(t *testing.T) {
	t.Run("empty history is a list, not an error", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec := serve(api, httptest.NewRequest("GET", "/freepik?user_id=42", nil))
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"history":[]}` {
			t.Errorf("expected empty history list, got %s", got)
		}
	})

	t.Run("returns newest first for the user", func(t *testing.T) {
		api, ms := newTestAPI("", nil)
		ms.Record(context.Background(), &store.DownloadRequest{UserID: 7, Title: "first"})
		ms.Record(context.Background(), &store.DownloadRequest{UserID: 7, Title: "second"})
		ms.Record(context.Background(), &store.DownloadRequest{UserID: 8, Title: "other"})

		rec := serve(api, httptest.NewRequest("GET", "/freepik?user_id=7", nil))
		var body struct {
			History []store.DownloadRequest `json:"history"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		if len(body.History) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(body.History))
		}
		if body.History[0].Title != "second" {
			t.Errorf("expected newest first, got %q", body.History[0].Title)
		}
	})

	t.Run("garbage user_id defaults to zero", func(t *testing.T) {
		api, _ := newTestAPI("", nil)
		rec := serve(api, httptest.NewRequest("GET", "/freepik?user_id=banana", nil))
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
