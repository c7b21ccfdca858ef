package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/domain"
)

// BatchOptions parameterizes one transcription run. The values mirror the
// CLI flags: which files to pick up, how to bucket them and how many
// requests may be in flight at once.
type BatchOptions struct {
	Prefix         string
	BatchSize      int
	GroupIndex     int
	Grouping       bool
	GroupKeys      []string
	RequestTimeout time.Duration
}

// BatchSummary reports what a completed run did. Individual failures are
// recorded in their output documents, not surfaced as an error.
type BatchSummary struct {
	Selected  int
	Skipped   int
	Succeeded int
	Failed    int
}

// Batch orchestrates one transcription run: select sources, bucket them,
// fan out bounded concurrent transcription calls per bucket, and persist
// one document per file once the whole bucket has resolved.
type Batch struct {
	library Library
	stt     Transcriber
	stats   Stats
	logger  *slog.Logger
	opts    BatchOptions
}

func NewBatch(library Library, stt Transcriber, stats Stats, logger *slog.Logger, opts BatchOptions) *Batch {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 4
	}
	if len(opts.GroupKeys) == 0 {
		opts.GroupKeys = []string{"0", "1", "2", "3"}
	}
	if stats == nil {
		stats = &NoopStats{}
	}
	return &Batch{
		library: library,
		stt:     stt,
		stats:   stats,
		logger:  logger,
		opts:    opts,
	}
}

// Run executes the batch. Only setup failures (an unreadable input
// directory) return an error; per-file failures become the content of that
// file's output document and the run continues.
func (b *Batch) Run(ctx context.Context) (BatchSummary, error) {
	var summary BatchSummary

	names, err := b.library.ListSources(b.opts.Prefix)
	if err != nil {
		return summary, fmt.Errorf("listing sources: %w", err)
	}

	summary.Selected = len(names)
	b.stats.SourcesSelected(len(names))

	if len(names) == 0 {
		b.logger.Info("no files to process", "prefix", b.opts.Prefix)
		return summary, nil
	}

	b.logger.Info("found files to process", "count", len(names), "prefix", b.opts.Prefix)

	groups := map[string][]string{"": names}
	if b.opts.Grouping {
		var skipped []string
		groups, skipped = Partition(names, b.opts.GroupIndex, b.opts.GroupKeys)
		for _, name := range skipped {
			b.logger.Warn("skipping file outside expected groups",
				"file", name,
				"groupIndex", b.opts.GroupIndex,
			)
		}
		summary.Skipped = len(skipped)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		files := groups[key]
		if len(files) == 0 {
			continue
		}

		if b.opts.Grouping {
			b.logger.Info("processing group", "group", key, "files", len(files))
		}

		records := b.transcribeGroup(ctx, files)

		// Every outcome in the group has resolved; only now write.
		for _, rec := range records {
			if rec.Outcome.Failed() {
				summary.Failed++
			} else {
				summary.Succeeded++
			}

			if err := b.library.WriteTranscript(rec.Name, rec.Outcome.Text()); err != nil {
				b.logger.Error("writing transcript", "file", rec.Name, "error", err)
			}
		}
	}

	b.logger.Info("batch complete",
		"selected", summary.Selected,
		"skipped", summary.Skipped,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)

	return summary, nil
}

// transcribeGroup transcribes every file in the group concurrently, at most
// BatchSize calls in flight, and returns once all outcomes have resolved.
// Results keep the input order.
func (b *Batch) transcribeGroup(ctx context.Context, names []string) []domain.TranscriptRecord {
	records := make([]domain.TranscriptRecord, len(names))
	sem := make(chan struct{}, b.opts.BatchSize)

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			records[i] = domain.TranscriptRecord{
				Name:    name,
				Outcome: b.transcribeOne(ctx, name),
			}
		}(i, name)
	}
	wg.Wait()

	return records
}

func (b *Batch) transcribeOne(ctx context.Context, name string) domain.Outcome {
	audio, err := b.library.ReadSource(name)
	if err != nil {
		b.logger.Warn("reading source", "file", name, "error", err)
		return domain.Failure(fmt.Sprintf("Error reading %s: %v", name, err))
	}

	callCtx := ctx
	if b.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.opts.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := b.stt.Transcribe(callCtx, name, audio)
	b.stats.TranscriptionFinished(err != nil, time.Since(start))

	if err != nil {
		b.logger.Warn("transcription failed", "file", name, "error", err)
		return domain.Failure(fmt.Sprintf("Error transcribing %s: %v", name, err))
	}

	b.logger.Info("transcribed", "file", name, "chars", len(text))
	return domain.Success(text)
}
