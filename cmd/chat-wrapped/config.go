package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/chat-wrapped/analysis"
)

const (
	backendHeuristic = "heuristic"
	backendOpenAI    = "openai"
	backendOff       = "off"
)

type Config struct {
	InPaths   string
	OutDir    string
	Pretty    bool
	Overwrite bool

	Timezone           string
	MinResponseSeconds float64
	MaxResponseSeconds float64

	SentimentBackend string
	LexiconPath      string
	APIKey           string
	Model            string

	Locale   string
	LogLevel string
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.InPaths) == "" {
		return errors.New("missing -in")
	}
	if c.OutDir == "" {
		return errors.New("missing -out")
	}
	if c.MinResponseSeconds < 0 {
		return errors.New("min-response-seconds must be >= 0")
	}
	if c.MaxResponseSeconds <= 0 {
		return errors.New("max-response-seconds must be > 0")
	}
	if c.MinResponseSeconds > c.MaxResponseSeconds {
		return errors.New("min-response-seconds must be <= max-response-seconds")
	}
	switch c.SentimentBackend {
	case backendHeuristic, backendOpenAI, backendOff:
	default:
		return fmt.Errorf("unknown -sentiment-backend %q (want heuristic, openai or off)", c.SentimentBackend)
	}
	if _, ok := analysis.LocaleByName(c.Locale); !ok {
		return fmt.Errorf("unknown -locale %q", c.Locale)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	return nil
}

// inputPaths splits the comma-separated -in value.
func (c Config) inputPaths() []string {
	var out []string
	for _, p := range strings.Split(c.InPaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}

func defaultConfig() Config {
	opts := analysis.DefaultOptions()
	return Config{
		InPaths:            filepath.FromSlash("docs/inbox"),
		OutDir:             filepath.FromSlash("docs/wrapped"),
		Timezone:           "UTC",
		MinResponseSeconds: opts.MinResponseSeconds,
		MaxResponseSeconds: opts.MaxResponseSeconds,
		SentimentBackend:   backendHeuristic,
		Locale:             "en",
		LogLevel:           "info",
	}
}
