package application

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/domain"
)

type PolishOptions struct {
	Workers        int
	RequestTimeout time.Duration
}

type PolishSummary struct {
	Processed int
	Succeeded int
	Failed    int
}

// PolishRun feeds every transcript document through the polisher and writes
// the resulting note. It is a second, independent pass over the output of a
// transcription batch: each file either produces a note or is logged and
// skipped.
type PolishRun struct {
	notes    NoteLibrary
	polisher Polisher
	stats    Stats
	logger   *slog.Logger
	opts     PolishOptions
}

func NewPolishRun(notes NoteLibrary, polisher Polisher, stats Stats, logger *slog.Logger, opts PolishOptions) *PolishRun {
	if opts.Workers <= 0 {
		opts.Workers = max(1, runtime.NumCPU()/2)
	}
	if stats == nil {
		stats = &NoopStats{}
	}
	return &PolishRun{
		notes:    notes,
		polisher: polisher,
		stats:    stats,
		logger:   logger,
		opts:     opts,
	}
}

func (p *PolishRun) Run(ctx context.Context) (PolishSummary, error) {
	names, err := p.notes.ListTranscripts()
	if err != nil {
		return PolishSummary{}, fmt.Errorf("listing transcripts: %w", err)
	}

	if len(names) == 0 {
		p.logger.Info("no transcripts to polish")
		return PolishSummary{}, nil
	}

	p.logger.Info("polishing transcripts", "count", len(names), "workers", p.opts.Workers)

	summary := PolishSummary{Processed: len(names)}
	sem := make(chan struct{}, p.opts.Workers)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			err := p.polishOne(ctx, name)
			p.stats.NotePolished(err != nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Warn("polishing transcript", "file", name, "error", err)
				summary.Failed++
			} else {
				summary.Succeeded++
			}
		}(name)
	}
	wg.Wait()

	p.logger.Info("polish complete",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)

	return summary, nil
}

func (p *PolishRun) polishOne(ctx context.Context, name string) error {
	transcript, err := p.notes.ReadTranscript(name)
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	if transcript == "" {
		return fmt.Errorf("transcript is empty")
	}

	callCtx := ctx
	if p.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		defer cancel()
	}

	note, err := p.polisher.Polish(callCtx, transcript)
	if err != nil {
		return fmt.Errorf("polishing: %w", err)
	}

	if err := p.notes.WriteNote(noteFileName(name, note), note.Markdown()); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}

	p.logger.Info("polished", "file", name, "title", note.Title)
	return nil
}

// noteFileName derives the polished note's name from the transcript's date
// stamp (the first ten characters of its stem, YYYYMMDDHH in the recorder's
// naming convention) and the note's sanitized title.
func noteFileName(transcriptName string, note *domain.Note) string {
	date := stem(transcriptName)
	if len(date) > 10 {
		date = date[:10]
	}
	return fmt.Sprintf("%s - %s.md", date, note.SafeTitle())
}
