package application

import "time"

// Stats receives counters from the batch as it runs. The Prometheus
// implementation lives in internal/metrics; tests and metric-less runs use
// NoopStats.
type Stats interface {
	SourcesSelected(n int)
	TranscriptionFinished(failed bool, elapsed time.Duration)
	NotePolished(failed bool)
}

type NoopStats struct{}

func (n *NoopStats) SourcesSelected(_ int)                         {}
func (n *NoopStats) TranscriptionFinished(_ bool, _ time.Duration) {}
func (n *NoopStats) NotePolished(_ bool)                           {}
