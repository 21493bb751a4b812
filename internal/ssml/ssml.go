// Package ssml strips speech markup from spoken text before display.
package ssml

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Strip removes every tag and collapses runs of whitespace.
func Strip(text string) string {
	text = tagPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
