package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "″", `"`,
	"–", "-", "—", "-", "−", "-",
	"…", "...",
	" ", " ",
)

// Sanitize maps text onto ISO-8859-1 so the same string renders in every
// layout font. Typographic punctuation becomes its ASCII form, accented
// letters outside the charset lose their accents, and anything else that
// cannot be represented is dropped.
func Sanitize(text string) string {
	text = punctuation.Replace(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin1(r) {
			b.WriteRune(r)
			continue
		}
		for _, d := range norm.NFKD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) || !latin1(d) {
				continue
			}
			b.WriteRune(d)
		}
	}
	return b.String()
}

func latin1(r rune) bool {
	if r == '\n' || r == '\t' {
		return true
	}
	if unicode.IsControl(r) {
		return false
	}
	_, ok := charmap.ISO8859_1.EncodeRune(r)
	return ok
}

// SafeName turns a candidate name into a file name stem.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "Candidate"
	}
	return out
}
