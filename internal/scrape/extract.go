package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/avlukashin/pikgrab/internal/config"
	"github.com/avlukashin/pikgrab/internal/util"
)

// FileInfo is the transient metadata scraped from one asset page. It is never
// persisted as-is, only flattened into a downloads row.
type FileInfo struct {
	Title            string   `json:"title"`
	Thumbnail        string   `json:"thumbnail,omitempty"`
	AvailableFormats []string `json:"available_formats"`
	SourceURL        string   `json:"source_url"`
	DownloadURL      string   `json:"download_url,omitempty"`
}

// Extract pulls title and thumbnail out of an asset page. It is best-effort
// and never fails: missing elements degrade to defaults.
func Extract(doc *goquery.Document, pageURL string) *FileInfo {
	info := &FileInfo{
		Title:            "Untitled",
		AvailableFormats: config.AvailableFormats,
		SourceURL:        pageURL,
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title != "" {
		if cleaned := util.SanitizeTitle(title); cleaned != "" {
			info.Title = cleaned
		}
	}

	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		class, _ := img.Attr("class")
		if !strings.Contains(class, "preview") && !strings.Contains(class, "image") {
			return true
		}
		if src, ok := img.Attr("src"); ok && src != "" {
			info.Thumbnail = src
			return false
		}
		if src, ok := img.Attr("data-src"); ok && src != "" {
			info.Thumbnail = src
			return false
		}
		return true
	})

	return info
}

// ParseDocument wraps goquery so callers don't import it directly.
func ParseDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
