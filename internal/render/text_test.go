package render

import (
	"strings"
	"testing"
)

func TestPresentLog(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		source    int
		wantText  string
		wantClass Class
	}{
		{
			name:      "date trimmed",
			text:      "2024-05-01 12:00:00.123 - skills - INFO - loaded",
			source:    0,
			wantText:  " 12:00:00.123 - skills - INFO - loaded",
			wantClass: ClassLog2,
		},
		{
			name:      "debug",
			text:      "12:00 | DEBUG    | Skills loader ready",
			source:    1,
			wantText:  "12:00 | DEBUG    | loader ready",
			wantClass: ClassLogDebug,
		},
		{
			name:      "error",
			text:      "12:00 | ERROR    | boom",
			wantText:  "12:00 | ERROR    | boom",
			wantClass: ClassLogError,
		},
		{
			name:      "ansi stripped",
			text:      "\x1b[31mred\x1b[0m text",
			source:    1,
			wantText:  "red text",
			wantClass: ClassLog1,
		},
		{
			name:      "notice",
			text:      "Connected to Messagebus!",
			source:    -1,
			wantText:  "Connected to Messagebus!",
			wantClass: ClassNotice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, class := presentLog(tt.text, tt.source)
			if text != tt.wantText || class != tt.wantClass {
				t.Fatalf("presentLog(%q) = %q, %v; want %q, %v", tt.text, text, class, tt.wantText, tt.wantClass)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	line := "abcdefghijklmnopqrstuvwxyz"

	if got := excerpt("short", 10, 0); got != "short" {
		t.Fatalf("excerpt(short) = %q", got)
	}

	tests := []struct {
		name    string
		hscroll int
		want    string
	}{
		{"end of line", 0, "~~~~uvwxyz"},
		{"middle", 8, "~~mnopqr~~"},
		{"start of line", 100, "abcdef~~~~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := excerpt(line, 10, tt.hscroll)
			if got != tt.want {
				t.Fatalf("excerpt(%d) = %q, want %q", tt.hscroll, got, tt.want)
			}
			if len(got) != 10 {
				t.Fatalf("excerpt(%d) has width %d, want 10", tt.hscroll, len(got))
			}
		})
	}
}

func TestTitlebarAndTail(t *testing.T) {
	if got := titlebar("History", 12); got != "History ====" {
		t.Fatalf("titlebar = %q", got)
	}
	if got := titlebar("Too long", 4); got != "Too long" {
		t.Fatalf("titlebar = %q", got)
	}
	if got := tail("hello world", 5); got != "world" {
		t.Fatalf("tail = %q", got)
	}
	if got := tail("hi", 0); got != "" {
		t.Fatalf("tail(0) = %q", got)
	}
	if !strings.HasPrefix(newestMarker, "   ^") {
		t.Fatalf("newestMarker = %q", newestMarker)
	}
}
