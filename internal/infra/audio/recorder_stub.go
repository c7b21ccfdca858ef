//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Recorder stub when portaudio is not available
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(dir string, sampleRate int, logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

func (r *Recorder) Start(_ context.Context) error {
	return fmt.Errorf("recording not available: rebuild with -tags portaudio")
}

func (r *Recorder) Stop() error {
	return nil
}

func (r *Recorder) Run(_ context.Context) error {
	return fmt.Errorf("recording not available: rebuild with -tags portaudio")
}
