//go:build portaudio
// +build portaudio

package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Recorder captures voice notes from the default microphone and drops them
// into the input directory, named YYYYMMDDHHMMSS.wav so they satisfy the
// date-prefix convention the batch selector and partitioner expect.
type Recorder struct {
	stream     *portaudio.Stream
	dir        string
	sampleRate int
	logger     *slog.Logger
	buffer     []int16
}

func NewRecorder(dir string, sampleRate int, logger *slog.Logger) *Recorder {
	return &Recorder{
		dir:        dir,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

func (r *Recorder) Start(_ context.Context) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating recording dir: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	inputChannels := 1
	outputChannels := 0
	framesPerBuffer := 1024

	r.buffer = make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(
		inputChannels,
		outputChannels,
		float64(r.sampleRate),
		framesPerBuffer,
		r.buffer,
	)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}

	r.stream = stream

	if err := r.stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	r.logger.Info("microphone started", "sampleRate", r.sampleRate, "dir", r.dir)
	return nil
}

func (r *Recorder) Stop() error {
	if r.stream != nil {
		r.stream.Stop()
		r.stream.Close()
	}
	portaudio.Terminate()
	return nil
}

// Run records notes until the context is cancelled. Each note ends after a
// second of trailing silence (or a ten minute cap) and is written before
// the next one starts.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, err := r.captureNote(ctx)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}

		name := time.Now().Format("20060102150405") + ".wav"
		wav, err := samplesToWav(samples, r.sampleRate)
		if err != nil {
			return fmt.Errorf("encoding wav: %w", err)
		}

		path := filepath.Join(r.dir, name)
		if err := os.WriteFile(path, wav, 0644); err != nil {
			return fmt.Errorf("writing recording: %w", err)
		}

		r.logger.Info("recorded note", "file", name, "seconds", len(samples)/r.sampleRate)
	}
}

func (r *Recorder) captureNote(ctx context.Context) ([]int16, error) {
	samples := make([]int16, 0, r.sampleRate*5)
	silenceThreshold := int16(500)
	silenceDuration := 0
	maxSilenceFrames := r.sampleRate

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := r.stream.Read(); err != nil {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}

		samples = append(samples, r.buffer...)

		isSilent := true
		for _, sample := range r.buffer {
			if sample > silenceThreshold || sample < -silenceThreshold {
				isSilent = false
				break
			}
		}

		if isSilent {
			silenceDuration += len(r.buffer)
		} else {
			silenceDuration = 0
		}

		if silenceDuration > maxSilenceFrames && len(samples) > r.sampleRate {
			break
		}

		if len(samples) > r.sampleRate*600 {
			break
		}
	}

	return samples, nil
}

func samplesToWav(samples []int16, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer

	dataSize := len(samples) * 2
	fileSize := 36 + dataSize

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(fileSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int16(1))
	binary.Write(&buf, binary.LittleEndian, int16(1))
	binary.Write(&buf, binary.LittleEndian, int32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, int32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, int16(2))
	binary.Write(&buf, binary.LittleEndian, int16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(dataSize))
	for _, sample := range samples {
		binary.Write(&buf, binary.LittleEndian, sample)
	}

	return buf.Bytes(), nil
}
