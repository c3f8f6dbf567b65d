package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// TranscriptEvent is one recognition result from the speech stream.
type TranscriptEvent struct {
	Transcript string `json:"transcript"`
	IsFinal    bool   `json:"is_final"`
}

// ListenerConfig configures the recognition stream client.
type ListenerConfig struct {
	ServerURL      string        // websocket endpoint of the recognition service
	SampleRate     int           // advertised capture sample rate
	ReconnectDelay time.Duration // pause before the supervisor restarts the stream
}

// DefaultListenerConfig returns sensible defaults.
func DefaultListenerConfig() *ListenerConfig {
	return &ListenerConfig{
		ServerURL:      "ws://localhost:9090/v1/listen",
		SampleRate:     16000,
		ReconnectDelay: 2 * time.Second,
	}
}

// Listener runs a long-lived background recognition stream. The stream task
// itself never restarts; a supervisor loop checks the enabled flag after each
// natural completion and redials, which keeps shutdown deterministic. Only
// final transcript events reach the handler.
type Listener struct {
	config  *ListenerConfig
	logger  zerolog.Logger
	handler func(transcript string)

	mu      sync.Mutex
	enabled bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewListener creates a Listener delivering final transcripts to handler.
func NewListener(cfg *ListenerConfig, logger zerolog.Logger, handler func(string)) *Listener {
	if cfg == nil {
		cfg = DefaultListenerConfig()
	}
	return &Listener{
		config:  cfg,
		logger:  logger.With().Str("component", "listener").Logger(),
		handler: handler,
	}
}

// Start begins supervised listening. Calling Start on a running listener is
// a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enabled {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.enabled = true
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.supervise(runCtx, l.done)
	l.logger.Info().Str("server", l.config.ServerURL).Msg("Listener started")
}

// Stop clears the enabled flag and tears down the current stream. It waits
// for the supervisor to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.enabled {
		l.mu.Unlock()
		return
	}
	l.enabled = false
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	cancel()
	<-done
	l.logger.Info().Msg("Listener stopped")
}

// IsListening reports whether the supervisor is active.
func (l *Listener) IsListening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// supervise restarts the stream after each natural completion while the
// enabled flag remains set. It closes the done channel it was started with,
// not the current field, so a Stop racing a fresh Start always unblocks.
func (l *Listener) supervise(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if !l.IsListening() || ctx.Err() != nil {
			return
		}

		if err := l.runStream(ctx); err != nil && ctx.Err() == nil {
			l.logger.Warn().Err(err).Msg("Recognition stream ended")
		}

		if !l.IsListening() || ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.config.ReconnectDelay):
		}
	}
}

// runStream dials the recognition service and reads transcript events until
// the connection closes or the context is cancelled.
func (l *Listener) runStream(ctx context.Context) error {
	endpoint, err := url.Parse(l.config.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid listener URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("sample_rate", fmt.Sprintf("%d", l.config.SampleRate))
	endpoint.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("dial recognition service: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the supervisor is cancelled.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read transcript event: %w", err)
		}

		var event TranscriptEvent
		if err := json.Unmarshal(data, &event); err != nil {
			l.logger.Warn().Err(err).Msg("Malformed transcript event, skipping")
			continue
		}

		// Interim results are display-only; classification runs on finals.
		if !event.IsFinal || event.Transcript == "" {
			continue
		}

		l.handler(event.Transcript)
	}
}
