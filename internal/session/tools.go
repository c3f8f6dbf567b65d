package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/normanking/srishti/internal/genai"
	"github.com/normanking/srishti/internal/relay"
	"github.com/normanking/srishti/internal/store"
)

// Tool names form a closed set. Anything outside it resolves to the generic
// success result so one bad call never blocks the response cycle.
const (
	ToolSetIntelligenceMode   = "set_intelligence_mode"
	ToolDetectEmotion         = "detect_emotion"
	ToolSemanticMemoryRecall  = "semantic_memory_recall"
	ToolCalculateProbability  = "calculate_probabilities"
	ToolStoreMemory           = "store_memory"
	ToolSystemAction          = "system_action"
	ToolDrawImage             = "draw_image"
)

const (
	defaultImportance = 5
	noRecordsSentinel = "No records found."
	recallInstruction = "Identify relevant memory indices. Return bulleted facts."
)

// Declarations returns the tool set advertised to the model on every turn.
func Declarations() []genai.FunctionDeclaration {
	str := genai.Schema{Type: "STRING"}
	return []genai.FunctionDeclaration{
		{
			Name:        ToolSetIntelligenceMode,
			Description: "Switch between Artificial General Intelligence (AGI) and Artificial Super Intelligence (ASI).",
			Parameters: &genai.Schema{
				Type: "OBJECT",
				Properties: map[string]genai.Schema{
					"mode": {Type: "STRING", Enum: []string{"AGI", "ASI"}},
				},
				Required: []string{"mode"},
			},
		},
		{
			Name:        ToolDetectEmotion,
			Description: "Update internal profile with detected user emotional state (STRESSED, EXCITED, ANGRY).",
			Parameters: &genai.Schema{
				Type:       "OBJECT",
				Properties: map[string]genai.Schema{"tone": str},
				Required:   []string{"tone"},
			},
		},
		{
			Name:        ToolSemanticMemoryRecall,
			Description: "Perform a semantic search in Srishti subconscious.",
			Parameters: &genai.Schema{
				Type:       "OBJECT",
				Properties: map[string]genai.Schema{"query": str},
				Required:   []string{"query"},
			},
		},
		{
			Name:        ToolCalculateProbability,
			Description: "Quantum reasoning analysis for future outcomes.",
			Parameters: &genai.Schema{
				Type:       "OBJECT",
				Properties: map[string]genai.Schema{"scenario": str},
				Required:   []string{"scenario"},
			},
		},
		{
			Name:        ToolStoreMemory,
			Description: "Save user habits, goals, or profile info.",
			Parameters: &genai.Schema{
				Type: "OBJECT",
				Properties: map[string]genai.Schema{
					"fact":       str,
					"category":   {Type: "STRING", Enum: []string{"goal", "habit", "mistake", "user_profile", "knowledge"}},
					"importance": {Type: "NUMBER"},
				},
				Required: []string{"fact", "category"},
			},
		},
		{
			Name:        ToolSystemAction,
			Description: "Execute simulated system control (wifi, brightness, lock, etc).",
			Parameters: &genai.Schema{
				Type: "OBJECT",
				Properties: map[string]genai.Schema{
					"action": str,
					"target": str,
				},
			},
		},
		{
			Name:        ToolDrawImage,
			Description: "Synthesize visual data.",
			Parameters: &genai.Schema{
				Type:       "OBJECT",
				Properties: map[string]genai.Schema{"prompt": str},
				Required:   []string{"prompt"},
			},
		},
	}
}

// dispatchTool executes one function call against local session state and
// returns the result payload sent back to the model. Dispatch never fails
// the turn: unknown or handler-less tools resolve to the generic success
// result.
func (e *Engine) dispatchTool(ctx context.Context, call genai.FunctionCall) map[string]any {
	category := relay.CategorySystem
	if e.modeSnapshot() == ModeASI {
		category = relay.CategoryQuantum
	}
	e.relayLog.Push(fmt.Sprintf("Neural Stream: %s", call.Name), category)

	result := "Success"

	switch call.Name {
	case ToolSetIntelligenceMode:
		mode := IntelligenceMode(argString(call.Args, "mode"))
		if mode == ModeAGI || mode == ModeASI {
			e.applyMode(mode)
			result = fmt.Sprintf("Intelligence focus shifted to %s. Neural constraints adjusted.", mode)
		}

	case ToolDetectEmotion:
		tone := Emotion(argString(call.Args, "tone"))
		if tone != "" {
			e.mu.Lock()
			e.state.UserEmotion = tone
			e.mu.Unlock()
			e.relayLog.Push(fmt.Sprintf("User Profile Update: Emotion=%s", tone), relay.CategoryLearning)
		}

	case ToolSemanticMemoryRecall:
		result = e.recallMemories(ctx, argString(call.Args, "query"))

	case ToolStoreMemory:
		e.storeMemory(call.Args)

	case ToolCalculateProbability:
		result = "Simulation complete. Primary path: 94.2% success. Secondary path: 5.8% divergence."
		e.relayLog.Push("Future state simulation executed.", relay.CategoryAudit)

	case ToolSystemAction, ToolDrawImage:
		// Accepted but simulated; no local effect.

	default:
		e.logger.Warn().Str("tool", call.Name).Msg("Unknown tool name, resolving to generic success")
	}

	return map[string]any{"result": result}
}

// recallMemories issues the secondary completion that searches the full
// memory collection. This is the one handler performing remote I/O
// mid-dispatch.
func (e *Engine) recallMemories(ctx context.Context, query string) string {
	e.mu.Lock()
	serialized, err := json.Marshal(e.memories)
	e.mu.Unlock()
	if err != nil {
		return noRecordsSentinel
	}

	req := &genai.GenerateRequest{
		Contents: []genai.Content{{
			Role:  "user",
			Parts: []genai.Part{{Text: fmt.Sprintf("Query: %q\nMemories: %s", query, serialized)}},
		}},
		SystemInstruction: &genai.Content{Parts: []genai.Part{{Text: recallInstruction}}},
	}

	resp, err := e.client.Generate(ctx, e.client.RecallModel(), req)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Memory recall request failed")
		return noRecordsSentinel
	}

	if text := resp.Text(); text != "" {
		return text
	}
	return noRecordsSentinel
}

// storeMemory appends a new memory item and persists the collection.
// Importance defaults to 5 when absent and is clamped to [1,10] when the
// model sends an out-of-range value.
func (e *Engine) storeMemory(args map[string]any) {
	item := store.MemoryItem{
		ID:          uuid.NewString(),
		Fact:        argString(args, "fact"),
		Category:    store.MemoryCategory(argString(args, "category")),
		Timestamp:   time.Now(),
		Importance:  clamp(argInt(args, "importance", defaultImportance), 1, 10),
		AccessCount: 1,
	}

	e.mu.Lock()
	e.memories = append([]store.MemoryItem{item}, e.memories...)
	memories := make([]store.MemoryItem, len(e.memories))
	copy(memories, e.memories)
	e.mu.Unlock()

	e.store.SaveMemories(memories)
}

// argString extracts a string argument, empty when absent or mistyped.
func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argInt extracts a numeric argument. JSON decoding yields float64.
func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}
