package transcribe

import (
	"encoding/binary"
	"fmt"
)

// wavAudio is decoded 16-bit PCM audio folded down to mono samples in
// the [-1, 1] range, which is what the whisper bindings consume.
type wavAudio struct {
	SampleRate int
	Samples    []float32
}

const pcmFormat = 1

// decodeWAV parses a RIFF/WAVE container holding 16-bit PCM audio.
// Compressed or float encodings are rejected.
func decodeWAV(data []byte) (wavAudio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavAudio{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		sampleRate    int
		numChannels   int
		bitsPerSample int
		haveFormat    bool
		pcm           []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return wavAudio{}, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return wavAudio{}, fmt.Errorf("malformed fmt chunk")
			}
			audioFormat := int(binary.LittleEndian.Uint16(data[body : body+2]))
			if audioFormat != pcmFormat {
				return wavAudio{}, fmt.Errorf("unsupported audio format %d, expected 16-bit PCM", audioFormat)
			}
			numChannels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if bitsPerSample != 16 {
				return wavAudio{}, fmt.Errorf("unsupported bit depth %d, expected 16", bitsPerSample)
			}
			if numChannels < 1 {
				return wavAudio{}, fmt.Errorf("malformed fmt chunk: zero channels")
			}
			haveFormat = true
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFormat {
		return wavAudio{}, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return wavAudio{}, fmt.Errorf("missing data chunk")
	}

	frameSize := 2 * numChannels
	frames := len(pcm) / frameSize
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < numChannels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(pcm[i*frameSize+ch*2:]))
			sum += float32(raw) / 32768.0
		}
		samples[i] = sum / float32(numChannels)
	}

	return wavAudio{SampleRate: sampleRate, Samples: samples}, nil
}
