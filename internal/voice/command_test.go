package voice

import (
	"testing"
)

func newTestInterpreter() *Interpreter {
	return NewInterpreter("Srishti", []string{"rara"})
}

func TestClassify_WakeWordWithResidual(t *testing.T) {
	in := newTestInterpreter()

	c := in.Classify("hey srishti turn on asi forecast")
	if c.Action != ActionWake {
		t.Fatalf("expected ActionWake, got %s", c.Action)
	}
	if c.Residual != "turn on asi forecast" {
		t.Errorf("expected residual 'turn on asi forecast', got %q", c.Residual)
	}
}

func TestClassify_WakeWordAlias(t *testing.T) {
	in := newTestInterpreter()

	c := in.Classify("Rara what is the weather")
	if c.Action != ActionWake {
		t.Fatalf("expected ActionWake, got %s", c.Action)
	}
	if c.Residual != "what is the weather" {
		t.Errorf("expected residual 'what is the weather', got %q", c.Residual)
	}
}

func TestClassify_WakeWordNoResidual(t *testing.T) {
	in := newTestInterpreter()

	c := in.Classify("hey srishti")
	if c.Action != ActionWake {
		t.Fatalf("expected ActionWake, got %s", c.Action)
	}
	if c.Residual != "" {
		t.Errorf("expected empty residual, got %q", c.Residual)
	}
}

func TestClassify_WakeWordPrecedesModePhrase(t *testing.T) {
	in := newTestInterpreter()

	// The wake-word check runs first, so an embedded mode phrase is treated
	// as chat text, not as a mode switch.
	c := in.Classify("hey srishti enable asi sandbox")
	if c.Action != ActionWake {
		t.Fatalf("expected ActionWake, got %s", c.Action)
	}
	if c.Residual != "enable asi sandbox" {
		t.Errorf("expected residual 'enable asi sandbox', got %q", c.Residual)
	}
}

func TestClassify_KillPhrases(t *testing.T) {
	in := newTestInterpreter()

	for _, transcript := range []string{
		"emergency shutdown",
		"initiate KILL PROTOCOL now",
	} {
		c := in.Classify(transcript)
		if c.Action != ActionKill {
			t.Errorf("%q: expected ActionKill, got %s", transcript, c.Action)
		}
	}
}

func TestClassify_ModePhrases(t *testing.T) {
	in := newTestInterpreter()

	c := in.Classify("enable asi sandbox")
	if c.Action != ActionModeSwitch || c.Mode != "ASI" {
		t.Errorf("expected ASI mode switch, got %s/%s", c.Action, c.Mode)
	}

	c = in.Classify("please switch to AGI mode")
	if c.Action != ActionModeSwitch || c.Mode != "AGI" {
		t.Errorf("expected AGI mode switch, got %s/%s", c.Action, c.Mode)
	}
}

func TestClassify_NoMatch(t *testing.T) {
	in := newTestInterpreter()

	c := in.Classify("the quarterly numbers look good")
	if c.Handled() {
		t.Errorf("expected unhandled classification, got %s", c.Action)
	}
}
