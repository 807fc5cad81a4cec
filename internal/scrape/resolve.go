package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var assetURLRe = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:png|jpe?g|svg|gif|psd|ai|eps|zip|rar)`)

// ResolveDownloadURL hunts for a direct asset URL in the page. First match by
// scan order wins:
//  1. inline scripts mentioning "download", scanned for an absolute URL with a
//     known asset extension
//  2. anchors whose href mentions "download" or the requested format
//  3. the og:image meta tag
//
// Returns "" when nothing plausible is found.
func ResolveDownloadURL(doc *goquery.Document, pageURL, format string) string {
	if link := resolveFromScripts(doc); link != "" {
		return link
	}
	if link := resolveFromAnchors(doc, pageURL, format); link != "" {
		return link
	}
	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && og != "" {
		return og
	}
	return ""
}

func resolveFromScripts(doc *goquery.Document) string {
	link := ""
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(strings.ToLower(text), "download") {
			return true
		}
		if m := assetURLRe.FindString(text); m != "" {
			link = m
			return false
		}
		return true
	})
	return link
}

func resolveFromAnchors(doc *goquery.Document, pageURL, format string) string {
	needle := strings.ToLower(format)
	link := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if href == "" {
			return true
		}
		lower := strings.ToLower(href)
		if !strings.Contains(lower, "download") && (needle == "" || !strings.Contains(lower, needle)) {
			return true
		}
		link = absolutize(href, pageURL)
		return false
	})
	return link
}

// absolutize resolves root-relative hrefs against the page's scheme and host.
func absolutize(href, pageURL string) string {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return href
	}
	return base.Scheme + "://" + base.Host + href
}
