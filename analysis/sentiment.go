package analysis

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scorer scores a batch of texts. Implementations return one score in [-1, 1] per input text,
// in order. Errors are allowed; the metrics engine replaces a failed batch with the heuristic.
type Scorer interface {
	ScoreBatch(ctx context.Context, texts []string) ([]float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, texts []string) ([]float64, error)

func (f ScorerFunc) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	return f(ctx, texts)
}

// HeuristicScorer scores texts with a lexicon. A nil Lexicon uses the default one.
type HeuristicScorer struct {
	Lexicon *Lexicon
}

func (h HeuristicScorer) ScoreBatch(_ context.Context, texts []string) ([]float64, error) {
	lx := h.Lexicon
	if lx == nil {
		lx = defaultLexicon
	}
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = lx.Score(t)
	}
	return out, nil
}

// ConstantScorer gives every text the same score; 0 turns sentiment off.
type ConstantScorer float64

func (c ConstantScorer) ScoreBatch(_ context.Context, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i := range out {
		out[i] = float64(c)
	}
	return out, nil
}

var defaultLexicon = DefaultLexicon()

var (
	positiveEmoticonRE = regexp.MustCompile(`(?i)(:\)+|:-\)+|:d+|x-?d+|;\)+|<3)`)
	negativeEmoticonRE = regexp.MustCompile(`(?i)(:\(+|:-\(+|:'\(+|=\(+|d:|d=|>:\()`)
	laughterRE         = regexp.MustCompile(`(?i)\b(ha){2,}|(he){2,}|(ja){2,}|lol+\b`)
)

var positiveEmoji = toSet(
	"\U0001F602", "\U0001F60D", "\U0001F60A", "\U0001F600", "\U0001F601", "\U0001F973",
	"\U0001F970", "\U0001F44D", "\U0001F495", "\U0001F496", "\U0001F497", "\U0001F498",
	"\U0001F49B", "\U0001F49C", "\U0001F49A", "\U0001F49D", "\U0001F60E", "\U0001F609",
)

var negativeEmoji = toSet(
	"\U0001F62D", "\U0001F622", "\U0001F641", "\U0001F614", "\U0001F612", "\U0001F621",
	"\U0001F620", "\U0001F624", "\U0001F92C", "\U0001F494", "\U0001F625",
)

const (
	negationSpan     = 2
	negationDampener = 0.85
	emoticonWeight   = 0.6
	emojiWeight      = 0.7
	laughterBonus    = 0.5
	punctStep        = 0.04
	punctCap         = 0.3
	capsRatio        = 0.6
	capsMinLetters   = 4
	capsBoost        = 1.1
)

// SentimentScore scores text with the default lexicon. The result is in [-1, 1]; empty text
// scores 0.
func SentimentScore(text string) float64 {
	return defaultLexicon.Score(text)
}

// Score runs the heuristic sentiment model over text.
//
// Tokens are looked up in the lexicon while tracking an intensifier multiplier (consumed by the
// next scored token) and a negation window that flips and dampens the next two scored tokens.
// Emoticons, emoji, laughter, punctuation and shouting then adjust the sum, which is normalized
// by the square root of the signal count and squashed with tanh.
func (lx *Lexicon) Score(text string) float64 {
	if text == "" {
		return 0
	}
	tokens := sentimentTokens(collapseRepeats(text))

	score := 0.0
	intensify := 1.0
	negate := 0
	for _, tok := range tokens {
		if lx.isNegation(tok) {
			negate = negationSpan
			continue
		}
		if m, ok := lx.Intensifiers[tok]; ok {
			intensify = math.Max(intensify, m)
			continue
		}
		if m, ok := lx.Dampeners[tok]; ok {
			intensify *= m
			continue
		}
		w := lx.Weights[tok]
		if w == 0 {
			continue
		}
		if negate > 0 {
			w = -w * negationDampener
			negate--
		}
		score += w * intensify
		intensify = 1.0
	}

	posEmot := len(positiveEmoticonRE.FindAllStringIndex(text, -1))
	negEmot := len(negativeEmoticonRE.FindAllStringIndex(text, -1))
	score += emoticonWeight * float64(posEmot-negEmot)
	if laughterRE.MatchString(text) {
		score += laughterBonus
	}

	posEmoji, negEmoji := 0, 0
	for _, e := range ExtractEmojis(text) {
		if _, ok := positiveEmoji[e]; ok {
			posEmoji++
		} else if _, ok := negativeEmoji[e]; ok {
			negEmoji++
		}
	}
	score += emojiWeight * float64(posEmoji-negEmoji)

	if punct := strings.Count(text, "!") + strings.Count(text, "?"); punct > 0 {
		score *= 1.0 + math.Min(punctCap, punctStep*float64(punct))
	}

	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= capsMinLetters && float64(upper)/float64(letters) >= capsRatio {
		score *= capsBoost
	}

	signals := len(tokens) + posEmot + negEmot + posEmoji + negEmoji
	norm := math.Max(1.0, math.Sqrt(float64(signals)))
	return math.Tanh(score / norm / 2.0)
}

// collapseRepeats shortens runs of three or more identical characters to two ("noooo" -> "noo").
// Newlines are left alone.
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == prev && r != '\n' {
			run++
		} else {
			prev = r
			run = 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sentimentTokens(text string) []string {
	words := normalizeText(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || isAllDigits(w) {
			continue
		}
		tokens = append(tokens, NormalizeToken(w))
	}
	return tokens
}
