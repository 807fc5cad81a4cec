package util

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/avlukashin/pikgrab/internal/config"
)

type URLValidation struct {
	Valid bool
	Error string
}

// ValidateAssetURL accepts URLs whose host contains one of the recognized
// asset-site domains. The substring match is intentionally the same permissive
// check the original service shipped.
func ValidateAssetURL(rawURL string) URLValidation {
	if rawURL == "" {
		return URLValidation{false, "URL is required"}
	}
	if len(rawURL) > config.MaxURLLength {
		return URLValidation{false, "URL is too long"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return URLValidation{false, "Invalid URL format"}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return URLValidation{false, "Only HTTP/HTTPS URLs are allowed"}
	}

	host := strings.ToLower(parsed.Host)
	for _, allowed := range config.AllowedHosts {
		if strings.Contains(host, allowed) {
			return URLValidation{true, ""}
		}
	}
	return URLValidation{false, "Not a Freepik/Flaticon link"}
}

// IsAssetLink reports whether free-form text mentions a recognized asset site.
// Used by the webhook to decide if a chat message should start the pipeline.
func IsAssetLink(text string) bool {
	for _, host := range config.AllowedHosts {
		if strings.Contains(text, host) {
			return true
		}
	}
	return false
}

var titleAllowedRe = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
var multiSpaceRe = regexp.MustCompile(`\s+`)
var slugUnsafeRe = regexp.MustCompile(`[^a-z0-9-]`)

// SanitizeTitle strips everything outside alphanumerics, whitespace and
// hyphens, collapses runs of whitespace and caps the result at MaxTitleLen.
func SanitizeTitle(title string) string {
	cleaned := titleAllowedRe.ReplaceAllString(title, "")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > config.MaxTitleLen {
		cleaned = strings.TrimSpace(cleaned[:config.MaxTitleLen])
	}
	return cleaned
}

// Slugify turns a title into a filesystem-safe object key segment.
func Slugify(title string) string {
	slug := strings.ToLower(SanitizeTitle(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugUnsafeRe.ReplaceAllString(slug, "")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}
