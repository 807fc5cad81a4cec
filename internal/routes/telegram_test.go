package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/avlukashin/pikgrab/internal/store"
	"github.com/avlukashin/pikgrab/internal/telegram"
)

// fakeTelegram captures outbound Bot API calls.
type fakeTelegram struct {
	mu       sync.Mutex
	payloads []map[string]interface{}
	srv      *httptest.Server
}

func newFakeTelegram(t *testing.T) *fakeTelegram {
	t.Helper()
	f := &fakeTelegram{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]interface{}
		json.NewDecoder(r.Body).Decode(&p)
		f.mu.Lock()
		f.payloads = append(f.payloads, p)
		f.mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTelegram) sent() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.payloads...)
}

func webhookAPI(t *testing.T, backendURL string) (*API, *fakeTelegram, *memStore) {
	t.Helper()
	ft := newFakeTelegram(t)
	ms := &memStore{}
	api := &API{
		Store:    ms,
		Telegram: telegram.NewWithBase("test-token", ft.srv.URL),
	}
	if backendURL != "" {
		api.Backend = newBackendClient(backendURL, "")
	}
	return api, ft, ms
}

func postWebhook(api *API, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/telegram", strings.NewReader(body))
	return serve(api, req)
}

func TestHandleWebhook(t *testing.T) {
	t.Run("start command sends welcome", func(t *testing.T) {
		api, ft, _ := webhookAPI(t, "")
		rec := postWebhook(api, `{"message":{"chat":{"id":99},"text":"/start"}}`)
		if rec.Code != 200 || rec.Body.String() != "OK" {
			t.Fatalf("expected 200 OK, got %d %q", rec.Code, rec.Body.String())
		}

		sent := ft.sent()
		if len(sent) != 1 {
			t.Fatalf("expected 1 outbound message, got %d", len(sent))
		}
		if text, _ := sent[0]["text"].(string); !strings.Contains(text, "Freepik bot") {
			t.Errorf("unexpected welcome text: %q", text)
		}
		if sent[0]["chat_id"] != float64(99) {
			t.Errorf("wrong chat id: %v", sent[0]["chat_id"])
		}
	})

	t.Run("unknown text gets the prompt", func(t *testing.T) {
		api, ft, _ := webhookAPI(t, "")
		rec := postWebhook(api, `{"message":{"chat":{"id":5},"text":"hello"}}`)
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		sent := ft.sent()
		if len(sent) != 1 || !strings.Contains(sent[0]["text"].(string), "Freepik or Flaticon") {
			t.Errorf("expected prompt, got %v", sent)
		}
	})

	t.Run("asset link drives the backend and sends a keyboard", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" || r.URL.Path != "/freepik" {
				t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"file_info":{"title":"Cool Asset","available_formats":["PSD","PNG","JPG","SVG"],"source_url":"u"}}`))
		}))
		defer backend.Close()

		api, ft, ms := webhookAPI(t, backend.URL)
		rec := postWebhook(api, `{"message":{"chat":{"id":777},"text":"https://www.freepik.com/free-vector/foo"}}`)
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		sent := ft.sent()
		if len(sent) != 2 {
			t.Fatalf("expected searching + result messages, got %d", len(sent))
		}
		if !strings.Contains(sent[1]["text"].(string), "Cool Asset") {
			t.Errorf("result message missing title: %v", sent[1]["text"])
		}

		markup, ok := sent[1]["reply_markup"].(map[string]interface{})
		if !ok {
			t.Fatal("expected an inline keyboard")
		}
		rows := markup["inline_keyboard"].([]interface{})
		if len(rows) != 2 {
			t.Fatalf("expected 4 buttons in rows of 3, got %d rows", len(rows))
		}
		first := rows[0].([]interface{})[0].(map[string]interface{})
		if cb, _ := first["callback_data"].(string); !strings.HasPrefix(cb, "download:PSD:") {
			t.Errorf("unexpected callback data %q", cb)
		}

		if len(ms.rows) != 1 {
			t.Fatalf("expected a pending row, got %d", len(ms.rows))
		}
		if ms.rows[0].Status != store.StatusPending || ms.rows[0].UserID != 777 {
			t.Errorf("pending row wrong: %+v", ms.rows[0])
		}
	})

	t.Run("backend 404 yields not-found reply, still acks", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"nope"}`, 404)
		}))
		defer backend.Close()

		api, ft, ms := webhookAPI(t, backend.URL)
		rec := postWebhook(api, `{"message":{"chat":{"id":1},"text":"https://flaticon.com/icon"}}`)
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		sent := ft.sent()
		if len(sent) != 2 || !strings.Contains(sent[1]["text"].(string), "Couldn't find") {
			t.Errorf("expected not-found reply, got %v", sent)
		}
		if len(ms.rows) != 0 {
			t.Errorf("no row should be recorded on not-found, got %d", len(ms.rows))
		}
	})

	t.Run("backend unreachable falls back to generic info", func(t *testing.T) {
		api, ft, _ := webhookAPI(t, "http://127.0.0.1:1")
		rec := postWebhook(api, `{"message":{"chat":{"id":2},"text":"https://www.freepik.com/x"}}`)
		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		sent := ft.sent()
		if len(sent) != 2 || !strings.Contains(sent[1]["text"].(string), "Freepik file") {
			t.Errorf("expected generic fallback, got %v", sent)
		}
	})

	t.Run("callback query is acked and ignored", func(t *testing.T) {
		api, ft, _ := webhookAPI(t, "")
		rec := postWebhook(api, `{"callback_query":{"id":"1","data":"download:PNG:https://www.freepik.com/x"}}`)
		if rec.Code != 200 || rec.Body.String() != "OK" {
			t.Fatalf("expected plain 200 OK ack, got %d %q", rec.Code, rec.Body.String())
		}
		if len(ft.sent()) != 0 {
			t.Error("callback updates should not produce outbound messages")
		}
	})

	t.Run("unreadable body is a 500", func(t *testing.T) {
		api, _, _ := webhookAPI(t, "")
		rec := postWebhook(api, `{broken`)
		if rec.Code != 500 {
			t.Fatalf("expected 500 on parse failure, got %d", rec.Code)
		}
	})
}
