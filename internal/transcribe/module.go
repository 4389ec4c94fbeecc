// Package transcribe exposes a speech-to-text endpoint backed by a
// local whisper.cpp model, with recordings archived to object storage.
package transcribe

import (
	apphttp "landing_backend/internal/http"
	"landing_backend/platform/config"
	"landing_backend/platform/logger"
)

type Config interface {
	config.TranscribeConfig
	config.StorageConfig
}

type Module struct {
	handler     *Handler
	transcriber *WhisperTranscriber
}

// NewModule loads the whisper model. Callers only construct the module
// when transcription is configured.
func NewModule(cfg Config, log *logger.Logger) (*Module, error) {
	transcriber, err := NewWhisperTranscriber(cfg.GetWhisperModelPath())
	if err != nil {
		return nil, err
	}

	var archive *Archive
	if cfg.IsMinIOEnabled() {
		archive, err = NewArchive(cfg, log)
		if err != nil {
			transcriber.Close()
			return nil, err
		}
	} else {
		log.Warn("recording archive disabled, MinIO not configured")
	}

	return &Module{
		handler:     NewHandler(transcriber, archive, cfg.GetTranscribeMaxBytes()),
		transcriber: transcriber,
	}, nil
}

func (m *Module) Name() string { return "transcribe" }

// Archive returns the recording store so main can ensure the bucket at
// startup.
func (m *Module) Archive() *Archive { return m.handler.archive }

func (m *Module) Close() error { return m.transcriber.Close() }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.POST("/transcribe", m.handler.Transcribe)
}

var _ apphttp.Module = (*Module)(nil)
