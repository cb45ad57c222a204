package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Characters that show up when UTF-8 bytes were decoded as Latin-1/CP1252.
var mojibakeMarkers = []string{
	"Ã", "Å", "Â", "Ð", "Ñ", "â", "‚", "�",
}

// Polish letters that NFKD does not decompose (ł) plus the ones it does, for a single pass.
var diacriticReplacer = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ż", "z", "ź", "z",
)

var (
	nickChangeMarkers = []string{"ustawil", "ustawila", "ustawiono"}
	themeChangeMarker = "motyw"
)

func countMojibakeMarkers(s string) int {
	n := 0
	for _, m := range mojibakeMarkers {
		n += strings.Count(s, m)
	}
	return n
}

// FixMojibake repairs text whose UTF-8 bytes were decoded once as Latin-1 or CP1252.
//
// Each candidate re-encoding is kept only if it is valid UTF-8 and strictly lowers the
// number of marker characters; otherwise the input is returned unchanged.
func FixMojibake(s string) string {
	best := s
	bestScore := countMojibakeMarkers(s)
	if bestScore == 0 {
		return s
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		candidate, err := cm.NewEncoder().String(s)
		if err != nil || !utf8.ValidString(candidate) {
			continue
		}
		if score := countMojibakeMarkers(candidate); score < bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}

// NormalizeForMatch case-folds s and strips diacritics (NFKD, combining marks dropped).
func NormalizeForMatch(s string) string {
	s = cases.Fold().String(s)
	s = diacriticReplacer.Replace(s)
	out, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		return s
	}
	return out
}

// IsIgnoredSystemMessage reports whether content is a generated notice (theme or nickname
// change) rather than something a participant wrote.
func IsIgnoredSystemMessage(content string) bool {
	normalized := NormalizeForMatch(content)
	if strings.Contains(normalized, themeChangeMarker) {
		return true
	}
	if !strings.Contains(normalized, "nick") {
		return false
	}
	for _, m := range nickChangeMarkers {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	return false
}
