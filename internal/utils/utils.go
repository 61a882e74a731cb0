package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug replaces every run of whitespace with a single hyphen and lower-cases
// the result. Other characters are kept as they are.
func Slug(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(s, "-"))
}

// ExportFilename builds the download name for a saved conversation, e.g.
// "gemini-chat-facebook-post-smarthome-hub.txt".
func ExportFilename(contentType, productName, ext string) string {
	name := fmt.Sprintf("gemini-chat-%s-%s", Slug(contentType), Slug(productName))
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// FormatSeconds renders a duration as seconds with two decimal places.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
