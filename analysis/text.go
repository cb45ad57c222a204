package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	urlRE   = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	emojiRE = regexp.MustCompile(`[` +
		`\x{1F1E6}-\x{1F1FF}` +
		`\x{1F300}-\x{1F5FF}` +
		`\x{1F600}-\x{1F64F}` +
		`\x{1F680}-\x{1F6FF}` +
		`\x{1F700}-\x{1F77F}` +
		`\x{1F780}-\x{1F7FF}` +
		`\x{1F800}-\x{1F8FF}` +
		`\x{1F900}-\x{1F9FF}` +
		`\x{1FA00}-\x{1FAFF}` +
		`\x{2600}-\x{26FF}` +
		`\x{2700}-\x{27BF}` +
		`]`)
)

const vowels = "aeiouy"

// Stopwords is the bilingual (English/Polish) stopword list used by Tokenize and the phrase
// filters. Entries are lowercase and diacritic-free.
var Stopwords = toSet(
	// English
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "do", "for", "from", "had",
	"has", "have", "he", "her", "his", "how", "i", "if", "in", "is", "it", "its", "me", "my", "no",
	"not", "of", "on", "or", "our", "out", "she", "so", "that", "the", "their", "them", "then",
	"there", "they", "this", "to", "up", "us", "was", "we", "were", "what", "when", "where", "who",
	"why", "with", "you", "your",
	// Polish
	"w", "z", "na", "po", "od", "za", "pod", "nad", "przy", "bez", "dla", "jak", "nie", "tak", "ze",
	"co", "czy", "ja", "ty", "ona", "ono", "wy", "oni", "one", "jest", "sa", "byc", "sie", "tez",
	"albo", "o", "u", "ale", "ej", "aha", "mhm", "bo", "ten", "ta", "te", "tu", "tam", "juz",
	"jeszcze", "nic", "wszystko", "bardzo", "tylko", "wiec", "skoro", "czyli", "oraz", "lub",
	"badz", "ok", "dobra", "wlasnie", "gdzie", "kiedy", "kto", "ile", "czemu", "dlaczego", "choc",
	"mimo", "lecz", "aby", "zeby", "gdy", "gdyby", "jesli", "jezeli", "chyba", "moze", "wiem",
	"sobie", "mi", "mu", "jej", "nam", "wam", "im", "go", "nas", "ich", "cie", "mnie", "tobie",
	// roman numerals
	"io", "ii", "iii", "iv", "vi", "vii", "viii", "ix", "xx",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isStopword(w string) bool {
	_, ok := Stopwords[w]
	return ok
}

// normalizeText lowercases s, drops URLs, and reduces everything that is not a letter or
// digit to single spaces. It returns the resulting words.
func normalizeText(s string) []string {
	s = strings.ToLower(s)
	s = urlRE.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Fields(s)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Tokenize returns the content words of text: lowercase, no URLs or punctuation, at least
// two characters, not purely numeric, and not a stopword.
func Tokenize(text string) []string {
	words := normalizeText(text)
	tokens := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || isAllDigits(w) || isStopword(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TokenizeRaw normalizes text like Tokenize but keeps every word, for n-gram generation.
func TokenizeRaw(text string) []string {
	return normalizeText(text)
}

// GenerateNgrams returns the space-joined contiguous runs of n tokens.
func GenerateNgrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// NormalizeToken case-folds a token and strips its diacritics.
func NormalizeToken(token string) string {
	return NormalizeForMatch(token)
}

func hasVowel(token string) bool {
	return strings.ContainsAny(token, vowels)
}

func hasConsonant(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) && !strings.ContainsRune(vowels, r) {
			return true
		}
	}
	return false
}

func isNoiseToken(token string) bool {
	n := utf8.RuneCountInString(token)
	if n <= 2 {
		return true
	}
	if isSingleRuneRepeated(token) {
		return true
	}
	if n <= 3 && (!hasVowel(token) || !hasConsonant(token)) {
		return true
	}
	return false
}

func isSingleRuneRepeated(token string) bool {
	first, _ := utf8.DecodeRuneInString(token)
	for _, r := range token {
		if r != first {
			return false
		}
	}
	return true
}

// IsMeaningfulPhrase filters n-grams down to phrases worth ranking. It rejects phrases made of
// stopwords or short/noisy tokens only, and two-word phrases that end on a stopword.
func IsMeaningfulPhrase(phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}

	normalized := make([]string, len(words))
	allShort := true
	for i, w := range words {
		normalized[i] = NormalizeToken(w)
		if utf8.RuneCountInString(normalized[i]) > 2 {
			allShort = false
		}
	}
	if allShort {
		return false
	}

	var content []string
	for _, w := range normalized {
		if !isStopword(w) {
			content = append(content, w)
		}
	}
	if len(content) == 0 {
		return false
	}

	allNoise := true
	hasStrong := false
	for _, tok := range content {
		if !isNoiseToken(tok) {
			allNoise = false
		}
		if utf8.RuneCountInString(tok) >= 3 && hasVowel(tok) && hasConsonant(tok) {
			hasStrong = true
		}
	}
	if allNoise || !hasStrong {
		return false
	}

	if len(words) == 2 && isStopword(normalized[1]) {
		return false
	}
	return true
}

// ExtractEmojis returns every emoji code point found in text, in order.
func ExtractEmojis(text string) []string {
	if text == "" {
		return nil
	}
	return emojiRE.FindAllString(text, -1)
}

// ExtractLinks returns the http(s):// and www. links found in text.
func ExtractLinks(text string) []string {
	if text == "" {
		return nil
	}
	return urlRE.FindAllString(text, -1)
}
