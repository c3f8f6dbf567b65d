package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "synapse.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_EmptyOnFreshDatabase(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadMemories())
	assert.Empty(t, s.LoadTasks())
}

func TestSQLiteStore_MemoryRoundTrip(t *testing.T) {
	s := newTestStore(t)

	memories := []MemoryItem{
		{
			ID:          "m1",
			Fact:        "user prefers morning reviews",
			Category:    CategoryHabit,
			Timestamp:   time.Now().Truncate(time.Second),
			Importance:  7,
			AccessCount: 1,
		},
		{
			ID:         "m2",
			Fact:       "ship project by friday",
			Category:   CategoryGoal,
			Importance: 9,
		},
	}
	s.SaveMemories(memories)

	loaded := s.LoadMemories()
	require.Len(t, loaded, 2)
	assert.Equal(t, "m1", loaded[0].ID)
	assert.Equal(t, CategoryHabit, loaded[0].Category)
	assert.Equal(t, 7, loaded[0].Importance)
	assert.Equal(t, "ship project by friday", loaded[1].Fact)
}

func TestSQLiteStore_SaveReplacesCollection(t *testing.T) {
	s := newTestStore(t)

	s.SaveMemories([]MemoryItem{{ID: "m1", Fact: "old"}})
	s.SaveMemories([]MemoryItem{{ID: "m2", Fact: "new"}})

	loaded := s.LoadMemories()
	require.Len(t, loaded, 1)
	assert.Equal(t, "m2", loaded[0].ID)
}

func TestSQLiteStore_TasksIndependentOfMemories(t *testing.T) {
	s := newTestStore(t)

	s.SaveTasks([]Task{{ID: "t1", Text: "calibrate sensors", Completed: false}})
	s.SaveMemories([]MemoryItem{{ID: "m1", Fact: "fact"}})

	tasks := s.LoadTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "calibrate sensors", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.Len(t, s.LoadMemories(), 1)
}

func TestSQLiteStore_CorruptSlotFallsBackToEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO slots (name, data) VALUES ('memories', 'not-json{')`)
	require.NoError(t, err)

	assert.Empty(t, s.LoadMemories())
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synapse.db")

	s1, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	s1.SaveTasks([]Task{{ID: "t1", Text: "survive restart"}})
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer s2.Close()

	tasks := s2.LoadTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "survive restart", tasks[0].Text)
}
