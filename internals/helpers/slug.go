package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reHyphen  = regexp.MustCompile(`-+`)
)

// Slugify turns free text into a lowercase slug of letters, digits and "-".
// Diacritics are stripped (é → e) while Hangul syllables are kept whole; runs of anything
// else collapse into one "-". The result is cut to maxLen runes (100 when <= 0).
// Blank input stays blank so required checks still apply.
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	// NFD splits accents off as Mn marks; NFC afterwards recomposes Hangul jamo.
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = norm.NFC.String(string(buf))

	s = reNonWord.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	return s
}
