package transcribe

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"landing_backend/platform/httpkit"
)

// Transcriber turns decoded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio wavAudio) (string, error)
}

type Handler struct {
	transcriber Transcriber
	archive     *Archive
	maxBytes    int64
}

func NewHandler(transcriber Transcriber, archive *Archive, maxBytes int64) *Handler {
	return &Handler{transcriber: transcriber, archive: archive, maxBytes: maxBytes}
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe accepts a 16-bit PCM WAV upload and returns the transcript.
// POST /transcribe, multipart field "audio", optional "format" (json|text).
func (h *Handler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing audio file", nil)
		return
	}
	if fileHeader.Size > h.maxBytes {
		httpkit.Error(c, http.StatusRequestEntityTooLarge, "audio file too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read audio file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read audio file", nil)
		return
	}
	if int64(len(data)) > h.maxBytes {
		httpkit.Error(c, http.StatusRequestEntityTooLarge, "audio file too large", nil)
		return
	}

	audio, err := decodeWAV(data)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	text, err := h.transcriber.Transcribe(c.Request.Context(), audio)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "transcription failed", nil)
		return
	}

	// Archive with a detached context so a slow upload does not hold
	// the response.
	go h.archive.Store(context.WithoutCancel(c.Request.Context()), data, "audio/wav")

	if c.Query("format") == "text" {
		c.String(http.StatusOK, text)
		return
	}
	httpkit.OK(c, transcribeResponse{Text: text})
}
