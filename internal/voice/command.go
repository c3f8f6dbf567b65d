// Package voice provides transcript classification and the background
// speech-recognition listener.
package voice

import (
	"strings"
)

// Action is the command class assigned to a transcript.
type Action int

const (
	// ActionNone means no command matched; the transcript is plain dictation.
	ActionNone Action = iota
	// ActionWake means a wake phrase matched; Residual holds the remaining text.
	ActionWake
	// ActionKill means an emergency phrase matched.
	ActionKill
	// ActionModeSwitch means an explicit mode phrase matched; Mode holds the target.
	ActionModeSwitch
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionWake:
		return "wake"
	case ActionKill:
		return "kill"
	case ActionModeSwitch:
		return "mode-switch"
	default:
		return "none"
	}
}

// Classification is the interpreter's verdict on one transcript.
type Classification struct {
	Action   Action
	Residual string // wake-phrase-stripped text, set for ActionWake
	Mode     string // "AGI" or "ASI", set for ActionModeSwitch
}

// Handled reports whether the transcript was consumed as a command.
func (c Classification) Handled() bool {
	return c.Action != ActionNone
}

// Interpreter classifies raw transcripts into local commands. Matching is
// case-insensitive substring containment, checked in a fixed order: wake
// phrases first, then emergency phrases, then mode phrases. The ordering
// matters: "hey srishti enable asi sandbox" is a wake-word chat submission,
// not a mode switch.
type Interpreter struct {
	wakePhrases []string
	killPhrases []string
}

// NewInterpreter builds an interpreter for the given bot name and short
// aliases. The canonical wake phrase is "hey <bot name>".
func NewInterpreter(botName string, aliases []string) *Interpreter {
	wake := []string{"hey " + strings.ToLower(botName)}
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			wake = append(wake, a)
		}
	}

	return &Interpreter{
		wakePhrases: wake,
		killPhrases: []string{"emergency shutdown", "kill protocol"},
	}
}

// Classify assigns a command class to the transcript. It is a pure function
// of its input; the caller applies the side effects.
func (in *Interpreter) Classify(transcript string) Classification {
	cmd := strings.ToLower(transcript)

	for _, phrase := range in.wakePhrases {
		if !strings.Contains(cmd, phrase) {
			continue
		}
		residual := cmd
		for _, p := range in.wakePhrases {
			residual = strings.ReplaceAll(residual, p, "")
		}
		return Classification{Action: ActionWake, Residual: strings.TrimSpace(residual)}
	}

	for _, phrase := range in.killPhrases {
		if strings.Contains(cmd, phrase) {
			return Classification{Action: ActionKill}
		}
	}

	if strings.Contains(cmd, "switch to agi mode") {
		return Classification{Action: ActionModeSwitch, Mode: "AGI"}
	}
	if strings.Contains(cmd, "enable asi sandbox") {
		return Classification{Action: ActionModeSwitch, Mode: "ASI"}
	}

	return Classification{Action: ActionNone}
}
