package config

import (
	"log"
	"os"
	"strings"
	"time"
)

var Version = "dev"

var (
	Port    string
	EnvMode string

	DatabaseURL string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	S3UseSSL    bool

	TelegramBotToken string
	BackendURL       string
	APIToken         string

	DiscordWebhookURL string
	DiscordPingUserID string
	DiscordAlerts     bool
)

const (
	FetchTimeout    = 10 * time.Second
	RetrieveTimeout = 30 * time.Second
	WebhookTimeout  = 15 * time.Second

	MaxFileSize  = 50 * 1024 * 1024
	MaxURLLength = 2048
	MaxTitleLen  = 100

	HistoryLimit = 50

	StoragePrefix = "assets"
)

// AvailableFormats is the static list advertised for every asset. The source
// pages don't expose a reliable per-asset format list, so this is a claim,
// not a scrape result.
var AvailableFormats = []string{"PSD", "PNG", "JPG", "SVG", "GIF", "AI", "EPS"}

var FormatMIMEs = map[string]string{
	"PSD": "image/vnd.adobe.photoshop",
	"PNG": "image/png",
	"JPG": "image/jpeg",
	"SVG": "image/svg+xml",
	"GIF": "image/gif",
	"AI":  "application/postscript",
	"EPS": "application/postscript",
}

// AllowedHosts are matched as substrings of the URL host, mirroring the
// original service's permissive check.
var AllowedHosts = []string{"freepik.com", "flaticon.com"}

var BrowserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.freepik.com/",
}

func Load() {
	Port = envOrDefault("PORT", "3001")
	EnvMode = envOrDefault("NODE_ENV", "development")

	DatabaseURL = os.Getenv("DATABASE_URL")
	if DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set, download history will be unavailable")
	}

	S3Endpoint = os.Getenv("S3_ENDPOINT")
	S3AccessKey = os.Getenv("S3_ACCESS_KEY")
	S3SecretKey = os.Getenv("S3_SECRET_KEY")
	S3Bucket = envOrDefault("S3_BUCKET", "pikgrab")
	S3UseSSL = envOrDefault("S3_USE_SSL", "true") == "true"

	scheme := "https"
	if !S3UseSSL {
		scheme = "http"
	}
	S3PublicURL = os.Getenv("S3_PUBLIC_URL")
	if S3PublicURL == "" && S3Endpoint != "" {
		S3PublicURL = scheme + "://" + S3Endpoint + "/" + S3Bucket
	}
	S3PublicURL = strings.TrimRight(S3PublicURL, "/")

	TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if TelegramBotToken == "" {
		log.Println("[WARN] TELEGRAM_BOT_TOKEN not set, webhook replies will be dropped")
	}

	BackendURL = envOrDefault("BACKEND_URL", "http://localhost:"+Port)
	APIToken = os.Getenv("API_TOKEN")

	DiscordWebhookURL = os.Getenv("DISCORD_WEBHOOK_URL")
	DiscordPingUserID = os.Getenv("DISCORD_PING_USER_ID")
	DiscordAlerts = DiscordWebhookURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
