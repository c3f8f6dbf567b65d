// Package store persists the durable session collections: memories and tasks.
package store

import (
	"time"
)

// MemoryCategory classifies a stored fact.
type MemoryCategory string

const (
	CategoryUserProfile     MemoryCategory = "user_profile"
	CategoryCoreDirective   MemoryCategory = "core_directive"
	CategoryHistoricalEvent MemoryCategory = "historical_event"
	CategoryTask            MemoryCategory = "task"
	CategoryReminder        MemoryCategory = "reminder"
	CategoryMistake         MemoryCategory = "mistake"
	CategoryHabit           MemoryCategory = "habit"
	CategoryGoal            MemoryCategory = "goal"
	CategoryKnowledge       MemoryCategory = "knowledge"
)

// MemoryItem is a durable fact saved by the store_memory tool.
type MemoryItem struct {
	ID          string         `json:"id"`
	Fact        string         `json:"fact"`
	Category    MemoryCategory `json:"category"`
	Timestamp   time.Time      `json:"timestamp"`
	Importance  int            `json:"importance"` // 1-10
	AccessCount int            `json:"accessCount"`
}

// Task is a durable to-do entry.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the interface for durable collection storage. Loads fall back to
// empty collections on any failure; saves are best-effort and never surface
// errors to the caller.
type Store interface {
	// LoadMemories returns all stored memories, newest first.
	LoadMemories() []MemoryItem

	// SaveMemories replaces the stored memory collection.
	SaveMemories(memories []MemoryItem)

	// LoadTasks returns all stored tasks.
	LoadTasks() []Task

	// SaveTasks replaces the stored task collection.
	SaveTasks(tasks []Task)

	// Close releases store resources.
	Close() error
}
