package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/srishti/internal/genai"
	"github.com/normanking/srishti/internal/relay"
)

func TestDispatchSetIntelligenceMode(t *testing.T) {
	e := newTestEngine(t, &fakeCompleter{})

	result := e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolSetIntelligenceMode,
		Args: map[string]any{"mode": "AGI"},
	})

	assert.Equal(t, ModeAGI, e.State().IntelligenceMode)
	assert.Contains(t, result["result"], "AGI")

	// Bogus modes leave state untouched and resolve to the generic result.
	result = e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolSetIntelligenceMode,
		Args: map[string]any{"mode": "OMEGA"},
	})
	assert.Equal(t, ModeAGI, e.State().IntelligenceMode)
	assert.Equal(t, "Success", result["result"])
}

func TestDispatchDetectEmotion(t *testing.T) {
	e := newTestEngine(t, &fakeCompleter{})

	e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolDetectEmotion,
		Args: map[string]any{"tone": "STRESSED"},
	})

	assert.Equal(t, EmotionStressed, e.State().UserEmotion)
}

func TestDispatchStoreMemoryImportanceClamp(t *testing.T) {
	e := newTestEngine(t, &fakeCompleter{})

	e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolStoreMemory,
		Args: map[string]any{"fact": "a", "category": "goal", "importance": float64(13)},
	})
	e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolStoreMemory,
		Args: map[string]any{"fact": "b", "category": "goal", "importance": float64(-2)},
	})
	e.dispatchTool(context.Background(), genai.FunctionCall{
		Name: ToolStoreMemory,
		Args: map[string]any{"fact": "c", "category": "goal"},
	})

	memories := e.Memories()
	require.Len(t, memories, 3)
	// Newest first.
	assert.Equal(t, "c", memories[0].Fact)
	assert.Equal(t, 5, memories[0].Importance)
	assert.Equal(t, 1, memories[1].Importance)
	assert.Equal(t, 10, memories[2].Importance)
}

func TestDispatchUnknownTool(t *testing.T) {
	e := newTestEngine(t, &fakeCompleter{})

	result := e.dispatchTool(context.Background(), genai.FunctionCall{Name: "open_airlock"})

	assert.Equal(t, "Success", result["result"])
}

func TestDispatchRelayCategoryFollowsMode(t *testing.T) {
	e := newTestEngine(t, &fakeCompleter{})

	e.dispatchTool(context.Background(), genai.FunctionCall{Name: ToolSystemAction})
	entries := e.Relay().Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, relay.CategoryQuantum, entries[0].Category)

	require.NoError(t, e.SetMode(ModeAGI))
	e.dispatchTool(context.Background(), genai.FunctionCall{Name: ToolSystemAction})
	entries = e.Relay().Entries()
	assert.Equal(t, relay.CategorySystem, entries[0].Category)
}

func TestRecallMemoriesNoRecords(t *testing.T) {
	fc := &fakeCompleter{responses: []*genai.GenerateResponse{{}}}
	e := newTestEngine(t, fc)

	got := e.recallMemories(context.Background(), "tea preferences")
	assert.Equal(t, "No records found.", got)
}

func TestRecallMemoriesReturnsText(t *testing.T) {
	fc := &fakeCompleter{responses: []*genai.GenerateResponse{textResponse("- user prefers tea")}}
	e := newTestEngine(t, fc)

	got := e.recallMemories(context.Background(), "tea preferences")
	assert.Equal(t, "- user prefers tea", got)
}
