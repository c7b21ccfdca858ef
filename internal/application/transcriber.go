package application

import (
	"context"
	"fmt"
)

type Transcriber interface {
	Transcribe(ctx context.Context, name string, audio []byte) (string, error)
}

// NoopTranscriber rejects every call. It stands in when no API key is
// configured so the wiring stays uniform.
type NoopTranscriber struct{}

func (n *NoopTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return "", fmt.Errorf("transcription not configured: set deepgram.api_key or DEEPGRAM_API_KEY")
}
