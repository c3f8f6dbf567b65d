package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/normanking/srishti/internal/genai"
	"github.com/normanking/srishti/internal/relay"
	"github.com/normanking/srishti/internal/store"
	"github.com/normanking/srishti/internal/voice"
)

// Guard-state errors returned by submission entry points.
var (
	ErrKillSwitched    = errors.New("session is kill-switched")
	ErrEmptySubmission = errors.New("nothing to submit")
	ErrTurnInFlight    = errors.New("a turn is already in flight")
)

// Feedback banner texts surfaced on guard rejections and voice commands.
const (
	feedbackLocked     = "SYSTEM_LOCKED"
	feedbackHalted     = "SYSTEM HALTED"
	feedbackRebooted   = "SYSTEM REBOOTED"
	feedbackActive     = "Active"
	feedbackAGIEnabled = "AGI_MODE_ENABLED"
	feedbackASIActive  = "ASI_ACTIVE"
)

const fallbackResponse = "Processed."

// Completer is the remote completion surface the engine drives. Satisfied
// by *genai.Client.
type Completer interface {
	Generate(ctx context.Context, model string, req *genai.GenerateRequest) (*genai.GenerateResponse, error)
	Synthesize(ctx context.Context, text string) (string, error)
	ChatModel() string
	RecallModel() string
}

// Config configures the session engine.
type Config struct {
	BotName           string
	WakeAliases       []string
	DefaultMode       IntelligenceMode
	HistoryWindow     int // prior messages sent as model context, besides the new one
	ThinkingBudgetASI int
	ThinkingBudgetAGI int
	MaxToolRounds     int // bounded tool-resolution rounds per turn
	RelayCapacity     int
}

// DefaultEngineConfig returns sensible defaults.
func DefaultEngineConfig() Config {
	return Config{
		BotName:           "Srishti",
		WakeAliases:       []string{"rara"},
		DefaultMode:       ModeASI,
		HistoryWindow:     15,
		ThinkingBudgetASI: 32000,
		ThinkingBudgetAGI: 8000,
		MaxToolRounds:     2,
		RelayCapacity:     relay.DefaultCapacity,
	}
}

// Engine owns the session: conversation history, session state, durable
// collections, and the turn state machine. All orchestration for a session
// is single-writer; at most one turn is in flight at a time.
type Engine struct {
	cfg    Config
	client Completer
	store  store.Store

	relayLog *relay.Log
	interp   *voice.Interpreter
	speaker  *Speaker
	logger   zerolog.Logger

	feedback func(text string)

	mu           sync.Mutex
	state        State
	history      []Message
	memories     []store.MemoryItem
	tasks        []store.Task
	pending      string
	turnInFlight bool
}

// NewEngine creates a session engine. Durable collections are loaded once
// at construction; load failures yield empty collections.
func NewEngine(cfg Config, client Completer, st store.Store, logger zerolog.Logger) *Engine {
	def := DefaultEngineConfig()
	if cfg.BotName == "" {
		cfg.BotName = def.BotName
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = def.DefaultMode
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = def.HistoryWindow
	}
	if cfg.ThinkingBudgetASI <= 0 {
		cfg.ThinkingBudgetASI = def.ThinkingBudgetASI
	}
	if cfg.ThinkingBudgetAGI <= 0 {
		cfg.ThinkingBudgetAGI = def.ThinkingBudgetAGI
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = def.MaxToolRounds
	}

	state := DefaultState()
	state.IntelligenceMode = cfg.DefaultMode

	e := &Engine{
		cfg:      cfg,
		client:   client,
		store:    st,
		relayLog: relay.NewLog(cfg.RelayCapacity),
		interp:   voice.NewInterpreter(cfg.BotName, cfg.WakeAliases),
		logger:   logger.With().Str("component", "session").Logger(),
		feedback: func(string) {},
		state:    state,
		memories: st.LoadMemories(),
		tasks:    st.LoadTasks(),
	}
	return e
}

// SetSpeaker attaches the playback speaker. Typically built against the
// engine's own relay log, so wiring happens after construction.
func (e *Engine) SetSpeaker(sp *Speaker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speaker = sp
}

// SetFeedback sets the callback receiving transient feedback banner texts.
func (e *Engine) SetFeedback(fn func(text string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		fn = func(string) {}
	}
	e.feedback = fn
}

// Relay returns the diagnostic feed.
func (e *Engine) Relay() *relay.Log {
	return e.relayLog
}

// State returns a copy of the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// History returns a copy of the conversation history.
func (e *Engine) History() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.history))
	copy(out, e.history)
	return out
}

// Memories returns a copy of the in-memory memory collection, newest first.
func (e *Engine) Memories() []store.MemoryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]store.MemoryItem, len(e.memories))
	copy(out, e.memories)
	return out
}

// Submit runs one conversation turn: append the user message, request a
// completion, resolve any tool calls, and append the assistant message.
// Failures after the user message is committed abort the turn without an
// assistant append; the thinking flag is always cleared.
func (e *Engine) Submit(ctx context.Context, text, imageURL string) error {
	text = strings.TrimSpace(text)

	e.mu.Lock()
	if e.state.IsKillSwitched {
		fb := e.feedback
		e.mu.Unlock()
		fb(feedbackLocked)
		return ErrKillSwitched
	}
	if text == "" && imageURL == "" {
		e.mu.Unlock()
		return ErrEmptySubmission
	}
	if e.turnInFlight {
		e.mu.Unlock()
		return ErrTurnInFlight
	}

	// Window the prior history before appending, so the model sees up to
	// HistoryWindow earlier messages plus the new one.
	msg := newHumanMessage(text, imageURL)
	contents := buildContents(e.history, e.cfg.HistoryWindow)
	contents = append(contents, genai.Content{Role: "user", Parts: []genai.Part{{Text: msg.Text}}})

	e.history = append(e.history, msg)
	e.pending = ""
	e.turnInFlight = true
	e.state.IsThinking = true
	e.state = e.state.Derive(len(e.history))

	budget := e.cfg.ThinkingBudgetAGI
	if e.state.IntelligenceMode == ModeASI {
		budget = e.cfg.ThinkingBudgetASI
	}
	instruction := fmt.Sprintf("%s\nINTEL_MODE: %s\nUSER_EMOTION: %s\nHEALTH: %d",
		systemInstruction, e.state.IntelligenceMode, e.state.UserEmotion, e.state.SystemHealth)
	e.mu.Unlock()

	// The thinking indicator must never stay stuck on, whatever happens below.
	defer func() {
		e.mu.Lock()
		e.state.IsThinking = false
		e.turnInFlight = false
		e.state = e.state.Derive(len(e.history))
		e.mu.Unlock()
	}()

	req := &genai.GenerateRequest{
		Contents:          contents,
		SystemInstruction: &genai.Content{Parts: []genai.Part{{Text: instruction}}},
		Tools:             []genai.Tool{{FunctionDeclarations: Declarations()}},
		GenerationConfig: &genai.GenerationConfig{
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: budget},
		},
	}

	resp, err := e.client.Generate(ctx, e.client.ChatModel(), req)
	if err != nil {
		e.logger.Error().Err(err).Msg("Turn submission failed")
		return fmt.Errorf("turn submission failed: %w", err)
	}

	resp, err = e.resolveToolCalls(ctx, req, resp)
	if err != nil {
		e.logger.Error().Err(err).Msg("Tool resolution failed")
		return fmt.Errorf("tool resolution failed: %w", err)
	}

	text = resp.Text()
	if text == "" {
		text = fallbackResponse
	}

	e.mu.Lock()
	e.history = append(e.history, newAssistantMessage(text, e.state))
	e.state = e.state.Derive(len(e.history))
	tts := e.state.TTSEnabled && !e.state.IsKillSwitched
	sp := e.speaker
	e.mu.Unlock()

	// Playback is fire-and-forget: the turn finalizes before audio ends,
	// and synthesis failures never fail the turn.
	if tts && sp != nil {
		go sp.Speak(context.Background(), text)
	}

	return nil
}

// resolveToolCalls executes function-call requests and resubmits the
// extended context. Resolution is bounded: after MaxToolRounds rounds,
// further function calls in the follow-up response are dropped with a
// diagnostic entry rather than silently ignored.
func (e *Engine) resolveToolCalls(ctx context.Context, req *genai.GenerateRequest, resp *genai.GenerateResponse) (*genai.GenerateResponse, error) {
	for round := 0; ; round++ {
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return resp, nil
		}
		if round >= e.cfg.MaxToolRounds {
			e.relayLog.Push(fmt.Sprintf("Tool resolution limit reached, dropping %d call(s)", len(calls)), relay.CategoryAudit)
			e.logger.Warn().Int("dropped", len(calls)).Msg("Tool resolution round limit reached")
			return resp, nil
		}

		// Handlers read and write session state, so execution is strictly
		// sequential to preserve read-after-write ordering.
		results := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			payload := e.dispatchTool(ctx, call)
			results = append(results, genai.Part{
				FunctionResponse: &genai.FunctionResponse{Name: call.Name, Response: payload},
			})
		}

		req.Contents = append(req.Contents,
			genai.Content{Role: "model", Parts: resp.FunctionCallParts()},
			genai.Content{Role: "user", Parts: results},
		)

		next, err := e.client.Generate(ctx, e.client.ChatModel(), req)
		if err != nil {
			return nil, err
		}
		resp = next
	}
}

// HandleTranscript classifies a final speech transcript and applies the
// matching command. Unmatched transcripts are appended to the pending input
// buffer instead of being submitted.
func (e *Engine) HandleTranscript(ctx context.Context, transcript string) {
	c := e.interp.Classify(transcript)

	switch c.Action {
	case voice.ActionWake:
		e.fb(feedbackActive)
		if c.Residual != "" {
			if err := e.Submit(ctx, c.Residual, ""); err != nil {
				e.logger.Warn().Err(err).Msg("Wake-word submission rejected")
			}
		}

	case voice.ActionKill:
		e.KillSwitch()

	case voice.ActionModeSwitch:
		mode := IntelligenceMode(c.Mode)
		if err := e.SetMode(mode); err != nil {
			return
		}
		if mode == ModeAGI {
			e.fb(feedbackAGIEnabled)
		} else {
			e.fb(feedbackASIActive)
		}

	default:
		e.AppendPending(transcript)
	}
}

// KillSwitch engages the sticky lockout: all mutating session operations
// are rejected until Reset.
func (e *Engine) KillSwitch() {
	e.mu.Lock()
	e.state.IsKillSwitched = true
	e.state.IsActive = false
	e.state.IntelligenceMode = ModeASI
	e.mu.Unlock()

	e.relayLog.Push("CRITICAL: Manual Kill-Protocol Initiated. System entering read-only state.", relay.CategorySecurity)
	e.fb(feedbackHalted)
}

// Reset disengages the kill switch and re-arms the session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state.IsKillSwitched = false
	e.state.IsActive = true
	e.state.SystemHealth = 98
	e.mu.Unlock()

	e.relayLog.Push("Synaptic reboot successful. ASI protocols reinstated.", relay.CategorySystem)
	e.fb(feedbackRebooted)
}

// SetMode switches the intelligence mode. Rejected while kill-switched.
func (e *Engine) SetMode(mode IntelligenceMode) error {
	if mode != ModeAGI && mode != ModeASI {
		return fmt.Errorf("unknown intelligence mode %q", mode)
	}

	e.mu.Lock()
	if e.state.IsKillSwitched {
		fb := e.feedback
		e.mu.Unlock()
		fb(feedbackLocked)
		return ErrKillSwitched
	}
	e.mu.Unlock()

	e.applyMode(mode)
	return nil
}

// applyMode applies a mode change and recomputes derived state. Used by
// both the public entry point and the tool handler (which is already past
// the kill-switch guard at turn entry).
func (e *Engine) applyMode(mode IntelligenceMode) {
	e.mu.Lock()
	e.state.IntelligenceMode = mode
	e.state = e.state.Derive(len(e.history))
	e.mu.Unlock()
}

// ToggleVision flips the vision flag. Rejected silently while kill-switched.
func (e *Engine) ToggleVision() {
	e.mu.Lock()
	if e.state.IsKillSwitched {
		e.mu.Unlock()
		return
	}
	e.state.VisionActive = !e.state.VisionActive
	enabled := e.state.VisionActive
	e.mu.Unlock()

	label := "DISABLED"
	if enabled {
		label = "ENABLED"
	}
	e.relayLog.Push(fmt.Sprintf("Tactical Vision Matrix: %s", label), relay.CategorySecurity)
}

// SetListening records whether the background recognition stream is active.
func (e *Engine) SetListening(active bool) {
	e.mu.Lock()
	e.state.Listening = active
	e.mu.Unlock()
}

// SetVocalMatrix switches the synthesis voice profile.
func (e *Engine) SetVocalMatrix(matrix VocalMatrix) {
	e.mu.Lock()
	if e.state.VocalMatrix == matrix {
		e.mu.Unlock()
		return
	}
	e.state.VocalMatrix = matrix
	e.mu.Unlock()

	e.relayLog.Push(fmt.Sprintf("Vocal matrix reconfigured: %s", matrix), relay.CategoryVocalMatrix)
}

// SetTTSEnabled toggles speech playback.
func (e *Engine) SetTTSEnabled(enabled bool) {
	e.mu.Lock()
	e.state.TTSEnabled = enabled
	e.mu.Unlock()
}

// ClearHistory drops the conversation history. Rejected while kill-switched.
func (e *Engine) ClearHistory() error {
	e.mu.Lock()
	if e.state.IsKillSwitched {
		fb := e.feedback
		e.mu.Unlock()
		fb(feedbackLocked)
		return ErrKillSwitched
	}
	e.history = nil
	e.state = e.state.Derive(0)
	e.mu.Unlock()
	return nil
}

// AppendPending appends dictated text to the pending input buffer.
// Ordering between dictation and manual edits is by event arrival.
func (e *Engine) AppendPending(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	e.mu.Lock()
	if e.pending == "" {
		e.pending = text
	} else {
		e.pending += " " + text
	}
	e.mu.Unlock()
}

// TakePending returns and clears the pending input buffer.
func (e *Engine) TakePending() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = ""
	return out
}

// AddTask appends a durable task and persists the collection.
func (e *Engine) AddTask(text string) store.Task {
	task := store.Task{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now(),
	}

	e.mu.Lock()
	e.tasks = append(e.tasks, task)
	tasks := make([]store.Task, len(e.tasks))
	copy(tasks, e.tasks)
	e.mu.Unlock()

	e.store.SaveTasks(tasks)
	return task
}

// modeSnapshot returns the current intelligence mode.
func (e *Engine) modeSnapshot() IntelligenceMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IntelligenceMode
}

// fb emits transient feedback under the current callback.
func (e *Engine) fb(text string) {
	e.mu.Lock()
	fn := e.feedback
	e.mu.Unlock()
	fn(text)
}
