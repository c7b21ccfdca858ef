package application

import (
	"context"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/domain"
)

type Polisher interface {
	Polish(ctx context.Context, transcript string) (*domain.Note, error)
}
