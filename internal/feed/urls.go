package feed

import "strings"

// NormalizeURL rewrites a protocol-relative URL to https. Anything else,
// including the empty string, is returned unchanged.
func NormalizeURL(url string) string {
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return url
}

func isHTMLType(mimeType string) bool {
	return mimeType == "" || strings.Contains(mimeType, "text/html")
}

func isImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}
