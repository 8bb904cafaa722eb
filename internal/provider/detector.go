package provider

import (
	"regexp"
)

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURL returns the first http(s) URL in text, or "" when there is none.
func ExtractURL(text string) string {
	return urlRegex.FindString(text)
}
