package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips every HTML element from user supplied text. Entities are
// decoded until none are left so encoded markup is recognised as tags, and the
// policy's own escaping is decoded afterwards since the API returns JSON.
func cleanText(s string) string {
	s = decodeEntities(s)
	s = strictPolicy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(s))
}

// decodeEntities unescapes repeatedly; every pass that changes s shortens it.
func decodeEntities(s string) string {
	for {
		next := html.UnescapeString(s)
		if next == s {
			return s
		}
		s = next
	}
}
