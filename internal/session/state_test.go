package session

import "testing"

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	if s.IntelligenceMode != ModeASI {
		t.Errorf("default mode = %s, want ASI", s.IntelligenceMode)
	}
	if s.SystemHealth != 98 {
		t.Errorf("default health = %d, want 98", s.SystemHealth)
	}
	if s.AIConfidence != 85 {
		t.Errorf("default confidence = %d, want 85", s.AIConfidence)
	}
	if s.PersonalityEvolutionLevel != 10 {
		t.Errorf("default evolution = %d, want 10", s.PersonalityEvolutionLevel)
	}
	if !s.TTSEnabled {
		t.Error("default TTS should be enabled")
	}
	if s.VocalMatrix != VocalMale {
		t.Errorf("default vocal matrix = %s, want MALE", s.VocalMatrix)
	}
	if s.IsKillSwitched || s.IsThinking {
		t.Error("fresh state should not be kill-switched or thinking")
	}
}

func TestDerivePersonalityThresholds(t *testing.T) {
	cases := []struct {
		msgCount int
		want     PersonalityMode
	}{
		{0, PersonalityCalm},
		{10, PersonalityCalm},
		{11, PersonalityLogical},
		{20, PersonalityLogical},
		{21, PersonalitySarcastic},
		{100, PersonalitySarcastic},
	}

	for _, tc := range cases {
		s := DefaultState()
		s.IntelligenceMode = ModeAGI
		s = s.Derive(tc.msgCount)
		if s.PersonalityMode != tc.want {
			t.Errorf("Derive(%d) personality = %s, want %s", tc.msgCount, s.PersonalityMode, tc.want)
		}
	}
}

func TestDeriveASIForcesAggressive(t *testing.T) {
	for _, n := range []int{0, 5, 15, 25} {
		s := DefaultState()
		s.IntelligenceMode = ModeASI
		s = s.Derive(n)
		if s.PersonalityMode != PersonalityAggressive {
			t.Errorf("Derive(%d) in ASI = %s, want AGGRESSIVE", n, s.PersonalityMode)
		}
	}
}

func TestDeriveEvolutionCapped(t *testing.T) {
	s := DefaultState().Derive(3)
	if s.PersonalityEvolutionLevel != 16 {
		t.Errorf("evolution after 3 messages = %d, want 16", s.PersonalityEvolutionLevel)
	}

	s = DefaultState().Derive(500)
	if s.PersonalityEvolutionLevel != 100 {
		t.Errorf("evolution should cap at 100, got %d", s.PersonalityEvolutionLevel)
	}
}

func TestDeriveConfidence(t *testing.T) {
	s := DefaultState()
	s.IntelligenceMode = ModeASI
	if got := s.Derive(3).AIConfidence; got != 95 {
		t.Errorf("ASI confidence = %d, want 95", got)
	}

	s.IntelligenceMode = ModeAGI
	if got := s.Derive(3).AIConfidence; got != 88 {
		t.Errorf("AGI confidence after 3 messages = %d, want 88", got)
	}
	if got := s.Derive(50).AIConfidence; got != 100 {
		t.Errorf("AGI confidence should cap at 100, got %d", got)
	}
}

func TestDeriveHealthFloor(t *testing.T) {
	s := DefaultState()
	s.IsThinking = true
	if got := s.Derive(0).SystemHealth; got != 95 {
		t.Errorf("thinking health = %d, want 95", got)
	}

	s.IsThinking = false
	if got := s.Derive(0).SystemHealth; got != 100 {
		t.Errorf("idle health = %d, want 100", got)
	}
	if got := s.Derive(0).SystemHealth; got < 80 {
		t.Errorf("health below floor: %d", got)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	s := DefaultState()
	once := s.Derive(7)
	twice := once.Derive(7)
	if once != twice {
		t.Errorf("Derive not idempotent: %+v vs %+v", once, twice)
	}
}
