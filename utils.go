package main

import (
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
)

const maxCaptionRunes = 200

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// captionFromClipboard turns whatever the clipboard holds into a single
// caption line. Rich text and HTML are reduced to their visible text.
func captionFromClipboard(text string) string {
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}

	var b strings.Builder
	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = b.Len() > 0
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}

	runes := []rune(b.String())
	if len(runes) > maxCaptionRunes {
		runes = runes[:maxCaptionRunes]
	}
	return string(runes)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") ||
			strings.Contains(text, "<div") || strings.Contains(text, "<span") || strings.Contains(text, "<p"))
}

// extractTextFromRTF drops control words and groups, keeping literal text,
// hex escapes and paragraph breaks.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	for i := 0; i < len(rtf); i++ {
		c := rtf[i]
		switch c {
		case '{', '}', '\r', '\n':
			continue
		case '\\':
		default:
			out.WriteByte(c)
			continue
		}

		if i+1 >= len(rtf) {
			break
		}
		next := rtf[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			out.WriteByte(next)
			i++
		case next == '\'' && i+3 < len(rtf):
			if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil {
				out.WriteRune(rune(v))
			}
			i += 3
		case isASCIILetter(next):
			j := i + 1
			for j < len(rtf) && isASCIILetter(rtf[j]) {
				j++
			}
			word := rtf[i+1 : j]
			for j < len(rtf) && (rtf[j] == '-' || (rtf[j] >= '0' && rtf[j] <= '9')) {
				j++
			}
			if j < len(rtf) && rtf[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			}
			i = j - 1
		default:
			i++
		}
	}
	return out.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func extractTextFromHTML(s string) string {
	var out strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			out.WriteByte(' ')
		case !inTag:
			out.WriteRune(r)
		}
	}
	return html.UnescapeString(out.String())
}
