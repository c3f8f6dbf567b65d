package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/srishti/internal/audio"
	"github.com/normanking/srishti/internal/relay"
)

// Sink plays decoded audio frames. Implementations block until playback
// has been handed off to the output device.
type Sink interface {
	PlayPCM(sampleRate int, frames []float32) error
}

// Synthesizer is the remote text-to-speech surface, satisfied by
// *genai.Client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Speaker turns response text into audible playback. Every failure mode is
// logged to the diagnostic feed and swallowed: speech is an output-only
// concern and never affects the turn that triggered it.
type Speaker struct {
	synth    Synthesizer
	sink     Sink
	relayLog *relay.Log
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewSpeaker creates a speaker. A nil sink disables playback while still
// exercising synthesis, useful for tests and headless runs.
func NewSpeaker(synth Synthesizer, sink Sink, relayLog *relay.Log, logger zerolog.Logger) *Speaker {
	return &Speaker{
		synth:    synth,
		sink:     sink,
		relayLog: relayLog,
		timeout:  30 * time.Second,
		logger:   logger.With().Str("component", "speaker").Logger(),
	}
}

// Speak synthesizes and plays the given text. Always returns; errors are
// reported on the diagnostic feed only.
func (s *Speaker) Speak(ctx context.Context, text string) {
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		s.report("Vocal synthesis failed", err)
		return
	}

	frames, err := audio.DecodeMono(payload)
	if err != nil {
		s.report("Vocal stream decode failed", err)
		return
	}
	if len(frames) == 0 {
		s.report("Vocal stream empty", nil)
		return
	}

	if s.sink == nil {
		return
	}
	if err := s.sink.PlayPCM(audio.SynthesisSampleRate, frames); err != nil {
		s.report("Vocal playback failed", err)
	}
}

func (s *Speaker) report(msg string, err error) {
	if err != nil {
		s.logger.Warn().Err(err).Msg(msg)
	} else {
		s.logger.Warn().Msg(msg)
	}
	if s.relayLog != nil {
		s.relayLog.Push(msg, relay.CategoryAudio)
	}
}
