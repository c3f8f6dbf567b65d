// Package audio provides PCM payload decoding for speech playback.
package audio

import (
	"encoding/base64"
	"fmt"
)

// SynthesisSampleRate is the sample rate of speech-synthesis payloads.
const SynthesisSampleRate = 24000

// DecodePCM16 decodes a base64 payload of 16-bit little-endian PCM frames
// into normalized per-channel sample buffers in [-1, 1). Frames are
// channel-interleaved; the result holds one buffer per channel.
//
// A zero-length payload yields empty buffers. A payload whose byte length is
// not a multiple of 2*channels is truncated input and returns an error.
func DecodePCM16(payload string, channels int) ([][]float32, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	frameBytes := 2 * channels
	if len(raw)%frameBytes != 0 {
		return nil, fmt.Errorf("truncated PCM payload: %d bytes not a multiple of %d", len(raw), frameBytes)
	}

	frameCount := len(raw) / frameBytes
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frameCount)
	}

	for i := 0; i < frameCount; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			sample := int16(raw[off]) | int16(raw[off+1])<<8
			out[ch][i] = float32(sample) / 32768.0
		}
	}

	return out, nil
}

// DecodeMono decodes a single-channel PCM16 payload.
func DecodeMono(payload string) ([]float32, error) {
	chans, err := DecodePCM16(payload, 1)
	if err != nil {
		return nil, err
	}
	return chans[0], nil
}
