package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	debugMarker   = "| DEBUG    |"
	errorMarker   = "| ERROR    |"
	overflowMark  = "~~"
	newestMarker  = "   ^--- NEWEST ---^ "
	versionBanner = " ovos-core        ==="
)

// titlebar pads title with '=' to length cells.
func titlebar(title string, length int) string {
	pad := length - 1 - len([]rune(title))
	if pad <= 0 {
		return title
	}
	return title + " " + strings.Repeat("=", pad)
}

// center returns the column that centres n cells on a width-wide row.
func center(width, n int) int {
	return max((width-n)/2, 0)
}

// presentLog strips terminal escapes and the leading date from a raw log
// line and picks its colour class.
func presentLog(text string, source int) (string, Class) {
	text = ansi.Strip(text)
	if len(text) > 24 && text[4] == '-' && text[7] == '-' {
		text = text[10:]
	}
	switch {
	case strings.Contains(text, debugMarker):
		return strings.Replace(text, "Skills ", "", 1), ClassLogDebug
	case strings.Contains(text, errorMarker):
		return text, ClassLogError
	default:
		return text, SourceClass(source)
	}
}

// excerpt fits line into width cells. Longer lines show a window that ends
// hscroll cells before the end of the line, with "~~" marking each cut
// side, so every line scrolls by the same amount.
func excerpt(line string, width, hscroll int) string {
	runes := []rune(line)
	n := len(runes)
	if n <= width || width <= 0 {
		return line
	}
	span := max(width-2*len(overflowMark), 1)
	start := max(n-span-max(hscroll, 0), 0)
	end := min(start+span, n)
	switch {
	case start == 0:
		return string(runes[start:end]) + overflowMark + overflowMark
	case end >= n-1:
		return overflowMark + overflowMark + string(runes[start:end])
	default:
		return overflowMark + string(runes[start:end]) + overflowMark
	}
}

// tail keeps the last n runes of s.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
