package transcribe

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func buildWAV(t *testing.T, format uint16, channels uint16, bits uint16, sampleRate uint32, samples []int16) []byte {
	t.Helper()

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	var buf []byte
	put32 := func(v uint32) {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		buf = append(buf, b...)
	}
	put16 := func(v uint16) {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		buf = append(buf, b...)
	}

	buf = append(buf, "RIFF"...)
	put32(uint32(36 + len(pcm)))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	put32(16)
	put16(format)
	put16(channels)
	put32(sampleRate)
	put32(sampleRate * uint32(channels) * uint32(bits) / 8)
	put16(channels * bits / 8)
	put16(bits)

	buf = append(buf, "data"...)
	put32(uint32(len(pcm)))
	buf = append(buf, pcm...)

	return buf
}

func TestDecodeWAVMono(t *testing.T) {
	data := buildWAV(t, 1, 1, 16, 16000, []int16{0, 16384, -16384, 32767})

	audio, err := decodeWAV(data)
	if err != nil {
		t.Fatalf("decodeWAV failed: %v", err)
	}
	if audio.SampleRate != 16000 {
		t.Fatalf("expected 16000 Hz, got %d", audio.SampleRate)
	}
	if len(audio.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(audio.Samples))
	}
	if audio.Samples[0] != 0 {
		t.Fatalf("expected silence at sample 0, got %f", audio.Samples[0])
	}
	if math.Abs(float64(audio.Samples[1])-0.5) > 0.001 {
		t.Fatalf("expected ~0.5 at sample 1, got %f", audio.Samples[1])
	}
	if math.Abs(float64(audio.Samples[2])+0.5) > 0.001 {
		t.Fatalf("expected ~-0.5 at sample 2, got %f", audio.Samples[2])
	}
}

func TestDecodeWAVStereoFoldsToMono(t *testing.T) {
	// Interleaved L/R frames; each frame averages to 8192.
	data := buildWAV(t, 1, 2, 16, 16000, []int16{16384, 0, 0, 16384})

	audio, err := decodeWAV(data)
	if err != nil {
		t.Fatalf("decodeWAV failed: %v", err)
	}
	if len(audio.Samples) != 2 {
		t.Fatalf("expected 2 mono frames, got %d", len(audio.Samples))
	}
	for i, s := range audio.Samples {
		if math.Abs(float64(s)-0.25) > 0.001 {
			t.Fatalf("frame %d: expected ~0.25, got %f", i, s)
		}
	}
}

func TestDecodeWAVRejectsNonPCM(t *testing.T) {
	// IEEE float format tag.
	data := buildWAV(t, 3, 1, 16, 16000, []int16{0})

	if _, err := decodeWAV(data); err == nil || !strings.Contains(err.Error(), "unsupported audio format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := decodeWAV([]byte("definitely not audio")); err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}
