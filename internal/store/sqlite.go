package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

const (
	slotMemories = "memories"
	slotTasks    = "tasks"
)

// SQLiteStore implements Store using a single-slot SQLite table. Each slot
// holds one JSON-encoded collection and is rewritten on every mutation, so
// the store tracks in-memory state change by change rather than in batches.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the slot table if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// loadSlot reads and decodes one slot into dst. Missing or invalid slots
// leave dst untouched so callers fall back to an empty collection.
func (s *SQLiteStore) loadSlot(name string, dst any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.db.QueryRow(`SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", name).Msg("Slot read failed, using empty collection")
		return
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		s.logger.Warn().Err(err).Str("slot", name).Msg("Slot decode failed, using empty collection")
	}
}

// saveSlot encodes and writes one slot. Failures are logged and swallowed.
func (s *SQLiteStore) saveSlot(name string, src any) {
	data, err := json.Marshal(src)
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", name).Msg("Slot encode failed, write skipped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO slots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, string(data))
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", name).Msg("Slot write failed")
	}
}

// LoadMemories returns all stored memories.
func (s *SQLiteStore) LoadMemories() []MemoryItem {
	memories := []MemoryItem{}
	s.loadSlot(slotMemories, &memories)
	return memories
}

// SaveMemories replaces the stored memory collection.
func (s *SQLiteStore) SaveMemories(memories []MemoryItem) {
	s.saveSlot(slotMemories, memories)
}

// LoadTasks returns all stored tasks.
func (s *SQLiteStore) LoadTasks() []Task {
	tasks := []Task{}
	s.loadSlot(slotTasks, &tasks)
	return tasks
}

// SaveTasks replaces the stored task collection.
func (s *SQLiteStore) SaveTasks(tasks []Task) {
	s.saveSlot(slotTasks, tasks)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
