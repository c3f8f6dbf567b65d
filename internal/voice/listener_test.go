package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecognizer serves one websocket session per connection, sending the
// configured events and then closing.
func fakeRecognizer(t *testing.T, events []TranscriptEvent) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestListener_DeliversOnlyFinalTranscripts(t *testing.T) {
	server := fakeRecognizer(t, []TranscriptEvent{
		{Transcript: "hey sri", IsFinal: false},
		{Transcript: "hey srishti status report", IsFinal: true},
		{Transcript: "", IsFinal: true},
	})
	defer server.Close()

	var mu sync.Mutex
	var got []string
	l := NewListener(&ListenerConfig{
		ServerURL:      wsURL(server),
		SampleRate:     16000,
		ReconnectDelay: 50 * time.Millisecond,
	}, zerolog.Nop(), func(transcript string) {
		mu.Lock()
		got = append(got, transcript)
		mu.Unlock()
	})

	l.Start(context.Background())
	defer l.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "hey srishti status report", got[0])
}

func TestListener_RestartsAfterNaturalClose(t *testing.T) {
	server := fakeRecognizer(t, []TranscriptEvent{
		{Transcript: "final one", IsFinal: true},
	})
	defer server.Close()

	var mu sync.Mutex
	count := 0
	l := NewListener(&ListenerConfig{
		ServerURL:      wsURL(server),
		SampleRate:     16000,
		ReconnectDelay: 20 * time.Millisecond,
	}, zerolog.Nop(), func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	l.Start(context.Background())
	defer l.Stop()

	// Each session delivers one final event, so more than one delivery
	// proves the supervisor redialed after the server closed the stream.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 2
	}, 3*time.Second, 10*time.Millisecond)
}

func TestListener_StartStopCycles(t *testing.T) {
	server := fakeRecognizer(t, []TranscriptEvent{
		{Transcript: "cycle", IsFinal: true},
	})
	defer server.Close()

	l := NewListener(&ListenerConfig{
		ServerURL:      wsURL(server),
		SampleRate:     16000,
		ReconnectDelay: 5 * time.Millisecond,
	}, zerolog.Nop(), func(string) {})

	// Rapid restart cycles: every Stop must return even when a new Start
	// races the previous supervisor's shutdown.
	for i := 0; i < 5; i++ {
		l.Start(context.Background())

		done := make(chan struct{})
		go func() {
			l.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Stop hung on cycle %d", i)
		}
		assert.False(t, l.IsListening())
	}
}

func TestListener_StopIsDeterministic(t *testing.T) {
	server := fakeRecognizer(t, nil)
	defer server.Close()

	l := NewListener(&ListenerConfig{
		ServerURL:      wsURL(server),
		SampleRate:     16000,
		ReconnectDelay: 10 * time.Millisecond,
	}, zerolog.Nop(), func(string) {})

	l.Start(context.Background())
	assert.True(t, l.IsListening())

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, l.IsListening())

	// Stop on a stopped listener is a no-op.
	l.Stop()
}
