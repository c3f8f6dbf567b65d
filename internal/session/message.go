package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/normanking/srishti/internal/genai"
)

// Role identifies the author of a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversation entry. Messages are immutable once created;
// assistant messages carry a snapshot of the emotion/personality/mode at
// generation time.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	ImageURL  string    `json:"imageUrl,omitempty"`

	BotEmotion       Emotion          `json:"botEmotion,omitempty"`
	Personality      PersonalityMode  `json:"personality,omitempty"`
	IntelligenceMode IntelligenceMode `json:"intelligenceMode,omitempty"`
}

// newHumanMessage creates a user message.
func newHumanMessage(text, imageURL string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleHuman,
		Text:      text,
		Timestamp: time.Now(),
		ImageURL:  imageURL,
	}
}

// newAssistantMessage creates an assistant message stamped with the current
// state snapshot.
func newAssistantMessage(text string, state State) Message {
	return Message{
		ID:               uuid.NewString(),
		Role:             RoleAssistant,
		Text:             text,
		Timestamp:        time.Now(),
		BotEmotion:       state.BotEmotion,
		Personality:      state.PersonalityMode,
		IntelligenceMode: state.IntelligenceMode,
	}
}

// buildContents maps the most recent window of history into the remote
// conversation format. Human messages become "user" turns, everything else
// becomes "model" turns. Ordering is preserved.
func buildContents(history []Message, window int) []genai.Content {
	start := len(history) - window
	if start < 0 {
		start = 0
	}

	contents := make([]genai.Content, 0, len(history)-start)
	for _, m := range history[start:] {
		role := "model"
		if m.Role == RoleHuman {
			role = "user"
		}
		contents = append(contents, genai.Content{
			Role:  role,
			Parts: []genai.Part{{Text: m.Text}},
		})
	}
	return contents
}
