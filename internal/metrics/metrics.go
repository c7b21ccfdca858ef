package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes batch progress as Prometheus metrics. Useful when a long
// run is watched from outside via the optional metrics endpoint.
type Metrics struct {
	SourcesSelectedTotal   prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram
	NotesPolishedTotal     prometheus.Counter
	NotePolishFailures     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SourcesSelectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_sources_selected_total",
			Help: "Total number of audio files selected for transcription",
		}),
		TranscriptionSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_transcriptions_succeeded_total",
			Help: "Total number of successful transcription calls",
		}),
		TranscriptionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_transcriptions_failed_total",
			Help: "Total number of failed transcription calls",
		}),
		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_transcription_duration_seconds",
			Help:    "Duration of transcription API calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		NotesPolishedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_notes_polished_total",
			Help: "Total number of transcripts polished into notes",
		}),
		NotePolishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_note_polish_failures_total",
			Help: "Total number of transcripts that failed to polish",
		}),
	}
}

func (m *Metrics) SourcesSelected(n int) {
	m.SourcesSelectedTotal.Add(float64(n))
}

func (m *Metrics) TranscriptionFinished(failed bool, elapsed time.Duration) {
	if failed {
		m.TranscriptionFailures.Inc()
	} else {
		m.TranscriptionSuccesses.Inc()
	}
	m.TranscriptionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) NotePolished(failed bool) {
	if failed {
		m.NotePolishFailures.Inc()
		return
	}
	m.NotesPolishedTotal.Inc()
}

// Serve exposes /metrics on addr in the background. Errors are logged, not
// fatal: a broken metrics listener must not take the batch down.
func Serve(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server", "error", err)
		}
	}()
}
