package ssml

import "testing"

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"speak wrapper", "<speak>Hello there</speak>", "Hello there"},
		{"break tag", "one<break time=\"1s\"/>two", "one two"},
		{"nested", "<speak><prosody rate=\"slow\">slow</prosody> fast</speak>", "slow fast"},
		{"whitespace", "  a \n\t b  ", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Fatalf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
