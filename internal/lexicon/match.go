package lexicon

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean applies NFKC normalization and collapses runs of whitespace. The
// analyzer runs every review text through it before counting or matching.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// fold is Clean plus case folding; all lexicon matching happens on folded text.
func fold(s string) string {
	return strings.ToLower(Clean(s))
}

// phraseIn reports whether phrase occurs in text anchored at word boundaries,
// so "app" never fires inside "happy".
func phraseIn(text, phrase string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		if boundary(text, i, len(phrase)) {
			return true
		}
		start = i + 1
	}
}

func boundary(text string, i, n int) bool {
	if i > 0 && alnum(text[i-1]) {
		return false
	}
	if j := i + n; j < len(text) && alnum(text[j]) {
		return false
	}
	return true
}

func alnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
