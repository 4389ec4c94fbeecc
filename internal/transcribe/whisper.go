package transcribe

import (
	"context"
	"fmt"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// WhisperTranscriber runs speech-to-text on the embedded whisper.cpp
// model. Contexts are not reentrant, so runs are serialized.
type WhisperTranscriber struct {
	model whisper.Model
	mu    sync.Mutex
}

func NewWhisperTranscriber(modelPath string) (*WhisperTranscriber, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}
	return &WhisperTranscriber{model: model}, nil
}

func (t *WhisperTranscriber) Close() error {
	return t.model.Close()
}

// Transcribe converts mono 16 kHz samples to text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio wavAudio) (string, error) {
	if audio.SampleRate != whisper.SampleRate {
		return "", fmt.Errorf("unsupported sample rate %d, expected %d", audio.SampleRate, whisper.SampleRate)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("failed to create whisper context: %w", err)
	}
	if err := wctx.SetLanguage("auto"); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := wctx.Process(audio.Samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	var text strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		if text.Len() > 0 {
			text.WriteString(" ")
		}
		text.WriteString(strings.TrimSpace(segment.Text))
	}

	return strings.TrimSpace(text.String()), nil
}
