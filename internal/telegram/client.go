// Package telegram is a thin client for the two Bot API calls the webhook
// needs. Send failures are logged, never propagated: the webhook must ack
// regardless.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

type Client struct {
	token   string
	apiBase string
	client  *http.Client
}

// Update is the inbound webhook envelope. Only the fields the webhook
// branches on are decoded.
type Update struct {
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type CallbackQuery struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

func New(token string) *Client {
	return &Client{
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithBase points the client at a different API host, for tests.
func NewWithBase(token, apiBase string) *Client {
	c := New(token)
	c.apiBase = apiBase
	return c
}

// SendMessage posts a plain text message to a chat.
func (c *Client) SendMessage(chatID int64, text string) {
	c.call("sendMessage", map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
}

// SendMessageWithKeyboard posts a message with an inline keyboard, chunking
// the buttons into rows of three.
func (c *Client) SendMessageWithKeyboard(chatID int64, text string, buttons []InlineKeyboardButton) {
	var keyboard [][]InlineKeyboardButton
	var row []InlineKeyboardButton
	for _, b := range buttons {
		row = append(row, b)
		if len(row) == 3 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	c.call("sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
		"reply_markup": map[string]interface{}{
			"inline_keyboard": keyboard,
		},
	})
}

func (c *Client) call(method string, payload map[string]interface{}) {
	if c == nil || c.token == "" {
		log.Println("[Telegram] no bot token, dropping outbound message")
		return
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)

	resp, err := c.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] %s failed: %v", method, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Printf("[Telegram] %s: HTTP %d", method, resp.StatusCode)
	}
}
