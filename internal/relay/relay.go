// Package relay keeps the ephemeral diagnostic feed shown in the neural log panel.
package relay

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category tags an entry with the subsystem that produced it.
type Category string

const (
	CategorySystem      Category = "SYSTEM"
	CategoryAudio       Category = "AUDIO"
	CategoryLearning    Category = "LEARNING"
	CategoryVocalMatrix Category = "VOCAL_MATRIX"
	CategoryNotif       Category = "NOTIF"
	CategoryImageGen    Category = "IMAGE_GEN"
	CategoryQuantum     Category = "QUANTUM"
	CategorySecurity    Category = "SECURITY"
	CategoryAudit       Category = "AUDIT"
)

// Entry is a single diagnostic record. Entries are never persisted.
type Entry struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultCapacity is the number of entries retained before eviction.
const DefaultCapacity = 50

// Log is a bounded, newest-first diagnostic buffer. Pushing past capacity
// evicts the oldest entry.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
	onPush  func(Entry)
}

// NewLog creates a Log with the given capacity. Non-positive capacity falls
// back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries: make([]Entry, 0, capacity),
		cap:     capacity,
	}
}

// SetOnPush sets a callback invoked for each new entry, for streaming the
// feed to a frontend.
func (l *Log) SetOnPush(fn func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onPush = fn
}

// Push prepends a new entry, evicting the oldest when over capacity.
func (l *Log) Push(content string, category Category) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Category:  category,
		Content:   content,
		Timestamp: time.Now(),
	}

	l.mu.Lock()
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
	fn := l.onPush
	l.mu.Unlock()

	if fn != nil {
		fn(entry)
	}
	return entry
}

// Entries returns a newest-first copy of the buffer.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of buffered entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}
