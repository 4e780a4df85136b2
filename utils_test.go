package main

import (
	"strings"
	"testing"
)

func TestCaptionFromClipboard(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "one does not simply", "one does not simply"},
		{"multi line", "  top text\n\n  bottom\ttext \r\n", "top text bottom text"},
		{"rtf", `{\rtf1\ansi Hello \b World\b0}`, "Hello World"},
		{"rtf escapes", `{\rtf1 a\{b\}\par c}`, "a{b} c"},
		{"html", "<div>Tom &amp; <b>Jerry</b></div>", "Tom & Jerry"},
		{"control chars", "a\x00b\x07c", "abc"},
		{"empty", "   \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := captionFromClipboard(tt.in); got != tt.want {
				t.Errorf("captionFromClipboard(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCaptionFromClipboardTruncates(t *testing.T) {
	got := captionFromClipboard(strings.Repeat("é", maxCaptionRunes+50))
	if n := len([]rune(got)); n != maxCaptionRunes {
		t.Errorf("length = %d runes, want %d", n, maxCaptionRunes)
	}
}
