package render

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/chat"
)

const responseIndent = "   "

// wrapEntry word-wraps one transcript entry to width. Replies keep their
// continuation lines indented under the "> " prefix.
func wrapEntry(entry string, width int) []string {
	if width <= 0 {
		return nil
	}
	reply := strings.HasPrefix(entry, ">")
	inner := width
	if reply {
		inner = max(width-len(responseIndent), 1)
	}

	text := strings.TrimSpace(strings.Join(strings.Fields(entry), " "))
	if text == "" {
		return nil
	}
	first := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(first, "\n")
	if !reply || len(lines) == 1 {
		return trimAll(lines)
	}

	rest := strings.Join(lines[1:], " ")
	cont := strings.Split(wrap.String(wordwrap.String(rest, inner), inner), "\n")
	out := []string{strings.TrimRight(lines[0], " ")}
	for _, l := range trimAll(cont) {
		out = append(out, responseIndent+l)
	}
	return out
}

func trimAll(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// chatLines wraps the newest entries until rows lines are filled and
// returns them oldest first.
func chatLines(entries []string, width, rows int) []string {
	if rows <= 0 || width <= 0 {
		return nil
	}
	out := make([]string, 0, rows)
	for i := len(entries) - 1; i >= 0 && len(out) < rows; i-- {
		wrapped := wrapEntry(entries[i], width)
		for j := len(wrapped) - 1; j >= 0 && len(out) < rows; j-- {
			out = append(out, wrapped[j])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func chatClass(line string) Class {
	if strings.HasPrefix(line, chat.ResponsePrefix) || strings.HasPrefix(line, responseIndent) {
		return ClassChatResponse
	}
	return ClassChatQuery
}
