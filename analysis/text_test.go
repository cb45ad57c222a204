package analysis

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("I LOVE pizza!!! and the 2024 pizza, see https://example.com/x x")
	want := []string{"love", "pizza", "pizza", "see"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize=%v, want %v", got, want)
	}
	if got := Tokenize(""); len(got) != 0 {
		t.Fatalf("Tokenize(\"\")=%v, want empty", got)
	}

	raw := TokenizeRaw("Go to www.example.com NOW")
	if !reflect.DeepEqual(raw, []string{"go", "to", "now"}) {
		t.Fatalf("TokenizeRaw=%v", raw)
	}
}

func TestGenerateNgrams(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b", "c"}
	if got := GenerateNgrams(tokens, 2); !reflect.DeepEqual(got, []string{"a b", "b c"}) {
		t.Fatalf("bigrams=%v", got)
	}
	if got := GenerateNgrams(tokens, 3); !reflect.DeepEqual(got, []string{"a b c"}) {
		t.Fatalf("trigrams=%v", got)
	}
	if got := GenerateNgrams(tokens, 4); got != nil {
		t.Fatalf("4-grams=%v, want nil", got)
	}
	if got := GenerateNgrams(tokens, 0); got != nil {
		t.Fatalf("0-grams=%v, want nil", got)
	}
}

func TestIsMeaningfulPhrase(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"pizza party":         true,
		"see you tomorrow":    true,
		"idę spać":            true,
		"go to":               false, // every word is at most two letters
		"and the":             false,
		"pizza and":           false, // two words ending on a stopword
		"zzz hmm":             false,
		"ok ok":               false,
		"":                    false,
		"jutro o ósmej rano":  true,
		"haha lol":            true,
	}
	for phrase, want := range cases {
		if got := IsMeaningfulPhrase(phrase); got != want {
			t.Fatalf("IsMeaningfulPhrase(%q)=%v, want %v", phrase, got, want)
		}
	}
}

func TestExtractEmojisAndLinks(t *testing.T) {
	t.Parallel()

	emojis := ExtractEmojis("hi 😂😂 ❤️ :) ok")
	if !reflect.DeepEqual(emojis, []string{"😂", "😂", "❤"}) {
		t.Fatalf("ExtractEmojis=%q", emojis)
	}
	if got := ExtractEmojis(""); got != nil {
		t.Fatalf("ExtractEmojis(\"\")=%v, want nil", got)
	}

	links := ExtractLinks("see https://a.example/x?y=1 and www.b.example, or HTTP://C.EXAMPLE")
	want := []string{"https://a.example/x?y=1", "www.b.example,", "HTTP://C.EXAMPLE"}
	if !reflect.DeepEqual(links, want) {
		t.Fatalf("ExtractLinks=%q, want %q", links, want)
	}
}
