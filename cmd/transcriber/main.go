package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/djscheuf/deepgram-transcribe-folder/config"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/application"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/audio"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/deepgram"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/ollama"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/storage"
	"github.com/djscheuf/deepgram-transcribe-folder/internal/metrics"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	inputDir := flag.String("input", "", "input directory containing audio files")
	outputDir := flag.String("output", "", "output directory for transcripts")
	prefix := flag.String("prefix", "", "filename prefix filter")
	batchSize := flag.Int("batch-size", 0, "maximum concurrent transcription requests")
	groupIndex := flag.Int("group-index", -1, "filename character index used to group files")
	noGroup := flag.Bool("no-group", false, "process all files as a single batch")
	polish := flag.Bool("polish", false, "polish transcripts with the local language model after transcribing")
	record := flag.Bool("record", false, "record voice notes from the microphone instead of transcribing")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on (disabled when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	applyFlags(cfg, *inputDir, *outputDir, *prefix, *batchSize, *groupIndex, *noGroup, *polish, *metricsAddr)

	logger := setupLogger(cfg.Log).With("runID", uuid.NewString())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if *record {
		runRecorder(ctx, cfg, logger)
		return
	}

	runBatch(ctx, cfg, logger)
}

func runRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	recorder := audio.NewRecorder(cfg.Transcribe.InputDir, cfg.Record.SampleRate, logger)

	if err := recorder.Start(ctx); err != nil {
		logger.Error("starting recorder", "error", err)
		os.Exit(1)
	}
	defer recorder.Stop()

	if err := recorder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("recorder error", "error", err)
		os.Exit(1)
	}
}

func runBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	if cfg.Deepgram.APIKey == "" {
		logger.Error("no Deepgram API key: set deepgram.api_key or DEEPGRAM_API_KEY")
		os.Exit(1)
	}

	library := storage.NewLibrary(
		cfg.Transcribe.InputDir,
		cfg.Transcribe.OutputDir,
		cfg.Polish.OutputDir,
		cfg.Transcribe.Extensions,
	)
	if err := library.EnsureDirs(cfg.Polish.Enabled); err != nil {
		logger.Error("preparing directories", "error", err)
		os.Exit(1)
	}

	var stats application.Stats = &application.NoopStats{}
	if cfg.Metrics.Addr != "" {
		m := metrics.New()
		metrics.Serve(cfg.Metrics.Addr, logger)
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
		stats = m
	}

	requestTimeout := parseDuration(cfg.Deepgram.Timeout, 60*time.Second, logger)
	stt := deepgram.NewClient(cfg.Deepgram.APIKey, cfg.Deepgram.Model, cfg.Deepgram.SmartFormat, requestTimeout)

	batch := application.NewBatch(library, stt, stats, logger, application.BatchOptions{
		Prefix:         cfg.Transcribe.Prefix,
		BatchSize:      cfg.Transcribe.BatchSize,
		GroupIndex:     cfg.Transcribe.GroupIndex,
		Grouping:       !cfg.Transcribe.NoGrouping,
		GroupKeys:      cfg.Transcribe.GroupKeys,
		RequestTimeout: requestTimeout,
	})

	logger.Info("starting transcription batch",
		"input", cfg.Transcribe.InputDir,
		"output", cfg.Transcribe.OutputDir,
		"prefix", cfg.Transcribe.Prefix,
		"batchSize", cfg.Transcribe.BatchSize,
	)

	if _, err := batch.Run(ctx); err != nil {
		logger.Error("batch error", "error", err)
		os.Exit(1)
	}

	if !cfg.Polish.Enabled {
		return
	}

	polishTimeout := parseDuration(cfg.Polish.Timeout, 5*time.Minute, logger)
	polisher := ollama.NewClient(cfg.Polish.URL, cfg.Polish.Model, polishTimeout)

	polishRun := application.NewPolishRun(library, polisher, stats, logger, application.PolishOptions{
		Workers:        cfg.Polish.Workers,
		RequestTimeout: polishTimeout,
	})

	if _, err := polishRun.Run(ctx); err != nil {
		logger.Error("polish error", "error", err)
		os.Exit(1)
	}
}

// applyFlags overrides config values with those flags the user actually
// passed on the command line.
func applyFlags(cfg *config.Config, inputDir, outputDir, prefix string, batchSize, groupIndex int, noGroup, polish bool, metricsAddr string) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Transcribe.InputDir = inputDir
		case "output":
			cfg.Transcribe.OutputDir = outputDir
		case "prefix":
			cfg.Transcribe.Prefix = prefix
		case "batch-size":
			cfg.Transcribe.BatchSize = batchSize
		case "group-index":
			cfg.Transcribe.GroupIndex = groupIndex
		case "no-group":
			cfg.Transcribe.NoGrouping = noGroup
		case "polish":
			cfg.Polish.Enabled = polish
		case "metrics-addr":
			cfg.Metrics.Addr = metricsAddr
		}
	})
}

func parseDuration(value string, fallback time.Duration, logger *slog.Logger) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("invalid duration, using default", "value", value, "error", err)
		return fallback
	}
	return d
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
