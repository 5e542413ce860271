package matchers

import (
	"strings"
	"unicode"
)

// MatchesAnyKeyword returns true if any keyword appears in the text,
// case-insensitively. Matching any one keyword of the list suffices.
func MatchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// MatchesAnyFlair returns true if the post flair contains any of the supplied
// flairs as a case-insensitive substring.
func MatchesAnyFlair(flair string, flairs []string) bool {
	if flair == "" {
		return false
	}
	lower := strings.ToLower(flair)
	for _, f := range flairs {
		if f == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// MatchesWholeWord returns true if the keyword appears as a complete word in
// the text. Word boundaries are non-alphanumeric characters or string ends.
// Short tokens like "ai" or "ml" need this; plain substring matching would
// fire on "email" or "html".
func MatchesWholeWord(text, keyword string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		pos += idx

		leftOk := pos == 0 || !isWordChar(rune(text[pos-1]))
		endPos := pos + len(keyword)
		rightOk := endPos == len(text) || !isWordChar(rune(text[endPos]))

		if leftOk && rightOk {
			return true
		}

		idx = pos + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
