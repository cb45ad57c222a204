package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/chat-wrapped/analysis"
	"github.com/theimaginaryfoundation/chat-wrapped/analysis/fileutils"
	"github.com/theimaginaryfoundation/chat-wrapped/analysis/provider"
)

const (
	metricsFileName = "metrics.json"
	statsFileName   = "stats.json"
)

var errNoMessages = errors.New("no valid messages found")

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel)

	scorer, err := buildScorer(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, scorer, logger)
	if err != nil {
		logger.Error().Err(err).Msg("chat-wrapped failed")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "messages=%d skipped=%d participants=%d out=%s\n", res.Messages, res.Skipped, res.Participants, cfg.OutDir)
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPaths, "in", cfg.InPaths, "Comma-separated export files or directories of message_*.json parts")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory to write metrics.json and stats.json into")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print output JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite existing output files")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone for hour/day/month statistics (e.g. Europe/Warsaw)")
	fs.Float64Var(&cfg.MinResponseSeconds, "min-response-seconds", cfg.MinResponseSeconds, "Ignore reply gaps shorter than this")
	fs.Float64Var(&cfg.MaxResponseSeconds, "max-response-seconds", cfg.MaxResponseSeconds, "Ignore reply gaps longer than this")
	fs.StringVar(&cfg.SentimentBackend, "sentiment-backend", cfg.SentimentBackend, "Sentiment scorer: heuristic, openai or off")
	fs.StringVar(&cfg.LexiconPath, "lexicon", "", "Optional YAML file extending the heuristic sentiment lexicon")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY); only used with -sentiment-backend openai")
	fs.StringVar(&cfg.Model, "model", provider.DefaultSentimentModel, "Model used by the openai sentiment backend")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Label language for stats.json: en or pl")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/chat-wrapped -in docs/inbox/alice_123 -out docs/wrapped -pretty")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/chat-wrapped -in message_1.json,message_2.json -timezone Europe/Warsaw -locale pl -overwrite")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.OutDir = filepath.Clean(cfg.OutDir)
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Str("cmd", "chat-wrapped").Str("run_id", uuid.NewString()).Logger()
}

// buildScorer returns nil for the heuristic backend so Compute uses its own lexicon.
func buildScorer(cfg Config) (analysis.Scorer, error) {
	switch cfg.SentimentBackend {
	case backendOff:
		return analysis.ConstantScorer(0), nil
	case backendOpenAI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("missing OPENAI_API_KEY (or pass -api-key)")
		}
		client := openai.NewClient(option.WithAPIKey(apiKey))
		return provider.NewOpenAIScorer(&client, cfg.Model), nil
	default:
		return nil, nil
	}
}

type runResult struct {
	Messages     int
	Skipped      int
	Participants int
}

func run(ctx context.Context, cfg Config, scorer analysis.Scorer, logger zerolog.Logger) (runResult, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return runResult{}, fmt.Errorf("run: load timezone: %w", err)
	}
	locale, ok := analysis.LocaleByName(cfg.Locale)
	if !ok {
		return runResult{}, fmt.Errorf("run: unknown locale %q", cfg.Locale)
	}

	metricsPath := filepath.Join(cfg.OutDir, metricsFileName)
	statsPath := filepath.Join(cfg.OutDir, statsFileName)
	if !cfg.Overwrite {
		for _, p := range []string{metricsPath, statsPath} {
			if fileutils.FileExists(p) {
				return runResult{}, fmt.Errorf("run: %s exists (pass -overwrite)", p)
			}
		}
	}

	paths, err := fileutils.ExpandInputs(cfg.inputPaths())
	if err != nil {
		return runResult{}, fmt.Errorf("run: %w", err)
	}
	if len(paths) == 0 {
		return runResult{}, fmt.Errorf("run: no input files under %s", cfg.InPaths)
	}
	logger.Debug().Strs("files", paths).Msg("loading export")

	messages, skipped, err := analysis.LoadExportFiles(paths...)
	if err != nil {
		return runResult{}, fmt.Errorf("run: %w", err)
	}
	if len(messages) == 0 {
		return runResult{}, errNoMessages
	}
	logger.Info().Int("messages", len(messages)).Int("skipped", skipped).Int("files", len(paths)).Msg("export loaded")

	opts := analysis.DefaultOptions()
	opts.Location = loc
	opts.MinResponseSeconds = cfg.MinResponseSeconds
	opts.MaxResponseSeconds = cfg.MaxResponseSeconds
	opts.Scorer = scorer
	opts.Logger = logger
	if cfg.LexiconPath != "" {
		lx, err := analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return runResult{}, fmt.Errorf("run: %w", err)
		}
		opts.Lexicon = lx
	}

	start := time.Now()
	metrics := analysis.Compute(ctx, messages, opts)
	if err := ctx.Err(); err != nil {
		return runResult{}, fmt.Errorf("run: %w", err)
	}
	stats := analysis.BuildStats(metrics, locale)
	logger.Info().Dur("took", time.Since(start)).Strs("participants", metrics.Participants).Msg("metrics computed")

	if err := fileutils.WriteJSONFileAtomic(metricsPath, metrics, cfg.Pretty); err != nil {
		return runResult{}, fmt.Errorf("run: %s: %w", metricsFileName, err)
	}
	if err := fileutils.WriteJSONFileAtomic(statsPath, stats, cfg.Pretty); err != nil {
		return runResult{}, fmt.Errorf("run: %s: %w", statsFileName, err)
	}

	return runResult{
		Messages:     len(messages),
		Skipped:      skipped,
		Participants: len(metrics.Participants),
	}, nil
}
