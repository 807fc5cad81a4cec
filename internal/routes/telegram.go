package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/avlukashin/pikgrab/internal/alerts"
	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/scrape"
	"github.com/avlukashin/pikgrab/internal/store"
	"github.com/avlukashin/pikgrab/internal/telegram"
	"github.com/avlukashin/pikgrab/internal/util"
)

const welcomeText = `🎨 Hi! I'm the Freepik bot.

Send me a link to a premium file from Freepik or Flaticon and I'll fetch it for you!

📎 Supported formats:
• PSD • PNG • JPG • SVG • GIF • AI • EPS

Just send the link and I'll do the rest! 🚀`

// handleWebhook consumes Telegram update envelopes. It always acks with
// 200/OK once the body is readable, whatever happens downstream, so Telegram
// doesn't re-deliver the update.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		alerts.WebhookError(err)
		http.Error(w, err.Error(), 500)
		return
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		log.Printf("[Webhook] bad update payload: %v", err)
		alerts.WebhookError(err)
		http.Error(w, err.Error(), 500)
		return
	}

	// callback_query updates (format buttons) have no consumer yet; ack them
	// so Telegram stops retrying.
	if update.Message == nil {
		ackOK(w)
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		a.Telegram.SendMessage(chatID, welcomeText)
	case util.IsAssetLink(text):
		a.handleAssetLink(r, chatID, text)
	default:
		a.Telegram.SendMessage(chatID, "Send me a link to a file from Freepik or Flaticon 🚀")
	}

	ackOK(w)
}

func (a *API) handleAssetLink(r *http.Request, chatID int64, assetURL string) {
	a.Telegram.SendMessage(chatID, "🔍 Looking for the file...")

	backend := a.Backend
	if backend == nil {
		backend = newBackendClient(config.BackendURL, config.APIToken)
	}

	info, err := backend.fetchFileInfo(0, assetURL)
	if err != nil {
		log.Printf("[Webhook] backend call failed: %v", err)
		// The page may still be fetchable later; answer with a generic
		// stand-in rather than nothing, as the original bot did.
		info = &scrape.FileInfo{
			Title:            "Freepik file",
			AvailableFormats: []string{"PNG", "JPG", "SVG", "PSD"},
			SourceURL:        assetURL,
		}
	}
	if info == nil {
		a.Telegram.SendMessage(chatID, "❌ Couldn't find the file. Check the link.")
		return
	}

	formats := info.AvailableFormats
	if len(formats) == 0 {
		formats = []string{"PNG"}
	}

	msg := fmt.Sprintf(`✅ File found!

📁 %s
📦 Formats: %s

Choose a format to download:`, orDefault(info.Title, "Untitled"), strings.Join(formats, " • "))

	buttons := make([]telegram.InlineKeyboardButton, 0, len(formats))
	for _, f := range formats {
		buttons = append(buttons, telegram.InlineKeyboardButton{
			Text:         f,
			CallbackData: fmt.Sprintf("download:%s:%s", f, assetURL),
		})
	}
	a.Telegram.SendMessageWithKeyboard(chatID, msg, buttons)

	if a.Store != nil {
		a.Store.Record(r.Context(), &store.DownloadRequest{
			UserID:    chatID,
			URL:       assetURL,
			Title:     info.Title,
			Format:    "PNG",
			Thumbnail: info.Thumbnail,
			Status:    store.StatusPending,
		})
	}
}

func ackOK(w http.ResponseWriter) {
	w.WriteHeader(200)
	w.Write([]byte("OK"))
}
