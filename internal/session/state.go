// Package session owns the conversation session: its state machine, the
// turn orchestrator, and the tool dispatch table.
package session

// IntelligenceMode is the coarse operating profile, affecting prompt framing
// and the thinking budget. Distinct from PersonalityMode.
type IntelligenceMode string

const (
	ModeAGI IntelligenceMode = "AGI"
	ModeASI IntelligenceMode = "ASI"
)

// PersonalityMode is the derived presentational tone label.
type PersonalityMode string

const (
	PersonalityCalm       PersonalityMode = "CALM"
	PersonalityLogical    PersonalityMode = "LOGICAL"
	PersonalitySarcastic  PersonalityMode = "SARCASTIC"
	PersonalityAggressive PersonalityMode = "AGGRESSIVE"
)

// Emotion tags a detected or displayed emotional state.
type Emotion string

const (
	EmotionNeutral    Emotion = "NEUTRAL"
	EmotionCalm       Emotion = "CALM"
	EmotionSupportive Emotion = "SUPPORTIVE"
	EmotionPlayful    Emotion = "PLAYFUL"
	EmotionConcerned  Emotion = "CONCERNED"
	EmotionEuphoric   Emotion = "EUPHORIC"
	EmotionThoughtful Emotion = "THOUGHTFUL"
	EmotionExcited    Emotion = "EXCITED"
	EmotionAngry      Emotion = "ANGRY"
	EmotionLaughing   Emotion = "LAUGHING"
	EmotionDespair    Emotion = "DESPAIR"
	EmotionDeceptive  Emotion = "DECEPTIVE"
	EmotionSarcastic  Emotion = "SARCASTIC"
	EmotionLogical    Emotion = "LOGICAL"
	EmotionStressed   Emotion = "STRESSED"
)

// VocalMatrix selects the synthesis voice profile.
type VocalMatrix string

const (
	VocalMale   VocalMatrix = "MALE"
	VocalFemale VocalMatrix = "FEMALE"
)

// State is the mutable session record. It is ephemeral: created once at
// session start and never persisted.
type State struct {
	IsActive       bool             `json:"isActive"`
	IsThinking     bool             `json:"isThinking"`
	IsKillSwitched bool             `json:"isKillSwitched"`

	IntelligenceMode IntelligenceMode `json:"intelligenceMode"`
	PersonalityMode  PersonalityMode  `json:"personalityMode"`

	UserEmotion Emotion `json:"userEmotion"`
	BotEmotion  Emotion `json:"botEmotion"`

	PersonalityEvolutionLevel int `json:"personalityEvolutionLevel"`
	SystemHealth              int `json:"systemHealth"`
	AIConfidence              int `json:"aiConfidence"`

	VisionActive bool        `json:"isVisionActive"`
	Listening    bool        `json:"isListening"`
	TTSEnabled   bool        `json:"ttsEnabled"`
	VocalMatrix  VocalMatrix `json:"vocalMatrix"`
}

// DefaultState returns the fixed session-start state.
func DefaultState() State {
	return State{
		IsActive:                  true,
		IntelligenceMode:          ModeASI,
		PersonalityMode:           PersonalityCalm,
		UserEmotion:               EmotionNeutral,
		BotEmotion:                EmotionCalm,
		PersonalityEvolutionLevel: 10,
		SystemHealth:              98,
		AIConfidence:              85,
		TTSEnabled:                true,
		VocalMatrix:               VocalMale,
	}
}

// Derive recomputes the derived fields from the message count and the
// current mode and thinking status. It is pure and idempotent: applying it
// twice with the same inputs yields the same state.
//
// Personality follows conversation length (CALM up to 10 messages, LOGICAL
// up to 20, SARCASTIC beyond), except ASI mode always forces AGGRESSIVE.
func (s State) Derive(msgCount int) State {
	personality := PersonalityCalm
	if msgCount > 20 {
		personality = PersonalitySarcastic
	} else if msgCount > 10 {
		personality = PersonalityLogical
	}
	if s.IntelligenceMode == ModeASI {
		personality = PersonalityAggressive
	}
	s.PersonalityMode = personality

	s.PersonalityEvolutionLevel = clamp(10+msgCount*2, 0, 100)

	confidence := 85 + msgCount
	if s.IntelligenceMode == ModeASI {
		confidence = 95
	}
	s.AIConfidence = clamp(confidence, 0, 100)

	health := 100
	if s.IsThinking {
		health -= 5
	}
	if health < 80 {
		health = 80
	}
	s.SystemHealth = clamp(health, 0, 100)

	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
