package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/chat-wrapped/analysis"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("chat-wrapped", flag.ContinueOnError)
	cfg, err := parseFlags(fs, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InPaths == "" {
		t.Fatalf("expected default InPaths")
	}
	if cfg.OutDir == "" {
		t.Fatalf("expected default OutDir")
	}
	if cfg.SentimentBackend != backendHeuristic {
		t.Fatalf("SentimentBackend=%q, want %q", cfg.SentimentBackend, backendHeuristic)
	}
	if cfg.MaxResponseSeconds != 12*3600 {
		t.Fatalf("MaxResponseSeconds=%v, want %v", cfg.MaxResponseSeconds, 12*3600)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("chat-wrapped", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-in", "a/message_1.json, a/message_2.json",
		"-out", "x/y/",
		"-pretty",
		"-overwrite",
		"-timezone", "Europe/Warsaw",
		"-min-response-seconds", "5",
		"-max-response-seconds", "3600",
		"-sentiment-backend", "off",
		"-lexicon", "lex.yaml",
		"-locale", "pl",
		"-log-level", "debug",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if got := cfg.inputPaths(); len(got) != 2 || got[1] != filepath.FromSlash("a/message_2.json") {
		t.Fatalf("inputPaths=%v", got)
	}
	if cfg.OutDir != filepath.FromSlash("x/y") {
		t.Fatalf("OutDir=%q, want %q", cfg.OutDir, filepath.FromSlash("x/y"))
	}
	if !cfg.Pretty || !cfg.Overwrite {
		t.Fatalf("Pretty=%v Overwrite=%v, want true true", cfg.Pretty, cfg.Overwrite)
	}
	if cfg.Timezone != "Europe/Warsaw" {
		t.Fatalf("Timezone=%q", cfg.Timezone)
	}
	if cfg.MinResponseSeconds != 5 || cfg.MaxResponseSeconds != 3600 {
		t.Fatalf("response window=[%v,%v], want [5,3600]", cfg.MinResponseSeconds, cfg.MaxResponseSeconds)
	}
	if cfg.SentimentBackend != backendOff || cfg.LexiconPath != "lex.yaml" || cfg.Locale != "pl" || cfg.LogLevel != "debug" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected error for empty config")
	}

	mutations := map[string]func(*Config){
		"backend":  func(c *Config) { c.SentimentBackend = "magic" },
		"locale":   func(c *Config) { c.Locale = "de" },
		"level":    func(c *Config) { c.LogLevel = "loud" },
		"window":   func(c *Config) { c.MinResponseSeconds = c.MaxResponseSeconds + 1 },
		"negative": func(c *Config) { c.MinResponseSeconds = -1 },
		"max":      func(c *Config) { c.MaxResponseSeconds = 0 },
	}
	for name, mutate := range mutations {
		cfg := defaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestBuildScorer(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	s, err := buildScorer(cfg)
	if err != nil || s != nil {
		t.Fatalf("heuristic: scorer=%v err=%v, want nil nil", s, err)
	}

	cfg.SentimentBackend = backendOff
	s, err = buildScorer(cfg)
	if err != nil {
		t.Fatalf("off: %v", err)
	}
	scores, err := s.ScoreBatch(context.Background(), []string{"a", "b"})
	if err != nil || len(scores) != 2 || scores[0] != 0 {
		t.Fatalf("off scores=%v err=%v", scores, err)
	}

	cfg.SentimentBackend = backendOpenAI
	cfg.APIKey = "sk-test"
	s, err = buildScorer(cfg)
	if err != nil || s == nil {
		t.Fatalf("openai: scorer=%v err=%v", s, err)
	}
}

const exportFixture = `{
  "participants": [{"name": "Alice"}, {"name": "Bob"}],
  "messages": [
    {"sender_name": "Bob", "timestamp_ms": 1700000240000, "content": "pizza tonight? 😂"},
    {"sender_name": "Alice", "timestamp_ms": 1700000180000, "content": "pizza party!"},
    {"sender_name": "Bob", "timestamp_ms": 1700000120000, "content": "great pizza"},
    {"sender_name": "Alice", "timestamp_ms": 1700000060000, "content": "hey, pizza?"},
    {"sender_name": "Bob", "timestamp_ms": 1700000000000, "photos": [{"uri": "a.jpg"}]},
    {"sender_name": "Bob", "content": "no timestamp"}
  ]
}`

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "message_1.json"), []byte(exportFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestRun_WritesOutputs(t *testing.T) {
	t.Parallel()

	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "wrapped")
	writeFixture(t, inDir)

	cfg := defaultConfig()
	cfg.InPaths = inDir
	cfg.OutDir = outDir
	cfg.Pretty = true

	res, err := run(context.Background(), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Messages != 5 || res.Skipped != 1 || res.Participants != 2 {
		t.Fatalf("res=%+v, want messages=5 skipped=1 participants=2", res)
	}

	b, err := os.ReadFile(filepath.Join(outDir, statsFileName))
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	var stats analysis.Stats
	if err := json.Unmarshal(b, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if len(stats.Users) != 2 || stats.Users[0] != "Bob" || stats.Users[1] != "Alice" {
		t.Fatalf("users=%v, want [Bob Alice]", stats.Users)
	}
	if stats.Total != 5 {
		t.Fatalf("total=%d, want 5", stats.Total)
	}
	if stats.Media.Photo != 1 {
		t.Fatalf("media.photo=%d, want 1", stats.Media.Photo)
	}

	b, err = os.ReadFile(filepath.Join(outDir, metricsFileName))
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	var metrics analysis.Metrics
	if err := json.Unmarshal(b, &metrics); err != nil {
		t.Fatalf("unmarshal metrics: %v", err)
	}
	if len(metrics.TopWords) == 0 || metrics.TopWords[0].Label != "pizza" || metrics.TopWords[0].Count != 4 {
		t.Fatalf("top words=%v, want pizza x4 first", metrics.TopWords)
	}

	// Second run must refuse to clobber existing outputs.
	if _, err := run(context.Background(), cfg, nil, zerolog.Nop()); err == nil || !strings.Contains(err.Error(), "-overwrite") {
		t.Fatalf("err=%v, want overwrite refusal", err)
	}
	cfg.Overwrite = true
	if _, err := run(context.Background(), cfg, analysis.ConstantScorer(0), zerolog.Nop()); err != nil {
		t.Fatalf("run with -overwrite: %v", err)
	}
}

func TestRun_NoMessages(t *testing.T) {
	t.Parallel()

	inDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "message_1.json"), []byte(`{"messages": [{"sender_name": "Ala", "content": "no timestamp"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultConfig()
	cfg.InPaths = inDir
	cfg.OutDir = t.TempDir()

	if _, err := run(context.Background(), cfg, nil, zerolog.Nop()); !errors.Is(err, errNoMessages) {
		t.Fatalf("err=%v, want errNoMessages", err)
	}
}

func TestRun_EmptyExportIsFormatError(t *testing.T) {
	t.Parallel()

	inDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "message_1.json"), []byte(`{"messages": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultConfig()
	cfg.InPaths = inDir
	cfg.OutDir = t.TempDir()

	if _, err := run(context.Background(), cfg, nil, zerolog.Nop()); !errors.Is(err, analysis.ErrFormat) {
		t.Fatalf("err=%v, want ErrFormat", err)
	}
}

func TestRun_BadTimezone(t *testing.T) {
	t.Parallel()

	inDir := t.TempDir()
	writeFixture(t, inDir)
	cfg := defaultConfig()
	cfg.InPaths = inDir
	cfg.OutDir = t.TempDir()
	cfg.Timezone = "Mars/Olympus_Mons"

	if _, err := run(context.Background(), cfg, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected timezone error")
	}
}
