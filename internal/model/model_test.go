package model

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"basic", ModeBasic},
		{"  Guided ", ModeGuided},
		{"deep-ask", ModeGuided},
		{"AUTOMATED", ModeAutomated},
		{"deep-auto", ModeAutomated},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseModeInvalid(t *testing.T) {
	for _, input := range []string{"", "oracle", "deep"} {
		_, err := ParseMode(input)
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", input, err)
		}
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("ParseMode(%q) error should be a configuration error", input)
		}
	}
}

func TestModesAreValid(t *testing.T) {
	for _, m := range Modes() {
		if !m.IsValid() {
			t.Errorf("mode %q should be valid", m)
		}
	}
	if Mode("oracle").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestReportAccessors(t *testing.T) {
	var nilReport *Report
	if nilReport.Label() != "" || nilReport.Confidence() != 0 {
		t.Error("nil report should yield empty label and zero confidence")
	}

	r := &Report{Results: map[string]StageResult{
		"step5": {Step: 5, Data: map[string]interface{}{"label": "HYP"}},
		"step6": {Step: 6, Data: map[string]interface{}{"confidence": 62.5}},
	}}
	if got := r.Label(); got != "HYP" {
		t.Errorf("Label() = %q, want HYP", got)
	}
	if got := r.Confidence(); got != 62.5 {
		t.Errorf("Confidence() = %v, want 62.5", got)
	}

	empty := &Report{}
	if empty.Label() != "" || empty.Confidence() != 0 {
		t.Error("report without stages should yield empty label and zero confidence")
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if _, err := ParseMode(c.Mode); err != nil {
		t.Errorf("default mode %q should parse: %v", c.Mode, err)
	}
	if c.CoherenceScore != 75 || c.InitialConfidence != 75 {
		t.Errorf("unexpected default scores: %+v", c)
	}
	if c.Batch.Workers <= 0 {
		t.Errorf("default workers should be positive, got %d", c.Batch.Workers)
	}
}
