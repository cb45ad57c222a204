package provider

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestGenerateSchemaSentimentBatch(t *testing.T) {
	t.Parallel()

	schema := GenerateSchema[SentimentBatch]()
	if schema[additionalPropertiesKey] != false {
		t.Fatalf("additionalProperties=%v, want false", schema[additionalPropertiesKey])
	}
	if got := schema[requiredKey]; !reflect.DeepEqual(got, []string{"scores"}) {
		t.Fatalf("required=%v, want [scores]", got)
	}

	props := schema[propertiesKey].(map[string]interface{})
	scores := props["scores"].(map[string]interface{})
	items := scores[itemsKey].(map[string]interface{})
	if items[additionalPropertiesKey] != false {
		t.Fatalf("items additionalProperties=%v, want false", items[additionalPropertiesKey])
	}
	if got := items[requiredKey]; !reflect.DeepEqual(got, []string{"index", "score"}) {
		t.Fatalf("items required=%v, want [index score]", got)
	}
}

func TestBuildSentimentInput(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", maxMessageChars+50)
	in, err := buildSentimentInput([]string{"hej :)", long})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var items []struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(in), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d, want 2", len(items))
	}
	if items[0].Index != 0 || items[0].Text != "hej :)" {
		t.Fatalf("items[0]=%+v", items[0])
	}
	if items[1].Index != 1 || len([]rune(items[1].Text)) != maxMessageChars+1 {
		t.Fatalf("items[1] not truncated: len=%d", len([]rune(items[1].Text)))
	}
}

func TestScoresFromBatch(t *testing.T) {
	t.Parallel()

	got, err := scoresFromBatch(SentimentBatch{Scores: []IndexedScore{
		{Index: 2, Score: 3},
		{Index: 0, Score: 0.25},
		{Index: 1, Score: -2},
	}}, 3)
	if err != nil {
		t.Fatalf("scoresFromBatch: %v", err)
	}
	want := []float64{0.25, -1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scores=%v, want %v", got, want)
	}

	if _, err := scoresFromBatch(SentimentBatch{Scores: []IndexedScore{{Index: 0, Score: 1}}}, 2); err == nil {
		t.Fatalf("expected error for missing index")
	}
	if _, err := scoresFromBatch(SentimentBatch{Scores: []IndexedScore{{Index: 5, Score: 1}}}, 1); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestOpenAIScorerRequiresClient(t *testing.T) {
	t.Parallel()

	s := NewOpenAIScorer(nil, "")
	if s.model != DefaultSentimentModel {
		t.Fatalf("model=%q, want %q", s.model, DefaultSentimentModel)
	}
	if _, err := s.ScoreBatch(context.Background(), []string{"hi"}); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestRetryClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err       error
		rateLimit bool
		server    bool
	}{
		{errors.New("POST: 429 Too Many Requests"), true, false},
		{errors.New("rate limit reached"), true, false},
		{errors.New("500 Internal Server Error"), false, true},
		{errors.New("503 service unavailable"), false, true},
		{errors.New("400 bad request"), false, false},
		{nil, false, false},
	}
	for _, tc := range cases {
		if got := isRateLimitError(tc.err); got != tc.rateLimit {
			t.Fatalf("isRateLimitError(%v)=%v, want %v", tc.err, got, tc.rateLimit)
		}
		if got := isServerError(tc.err); got != tc.server {
			t.Fatalf("isServerError(%v)=%v, want %v", tc.err, got, tc.server)
		}
	}
}

func TestSleepCtxCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepCtx(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("sleepCtx ignored cancellation")
	}
}
