package model

import (
	"fmt"
	"strings"
)

// Claim is a statement submitted for evaluation together with its sources
type Claim struct {
	Text      string   `json:"claim" yaml:"claim"`                             // The statement under evaluation
	Sources   []string `json:"sources,omitempty" yaml:"sources,omitempty"`     // Free-text source references
	Coherence *float64 `json:"coherence,omitempty" yaml:"coherence,omitempty"` // Initial coherence score (0-100), nil for default
	Heuristic string   `json:"heuristic,omitempty" yaml:"-"`                   // Which extraction rule produced the claim (scan only)
	Sentence  int      `json:"sentence,omitempty" yaml:"-"`                    // Sentence index in source document (scan only)
}

// Mode selects the report formatter and optional analyses of a pipeline run
type Mode string

const (
	ModeBasic     Mode = "basic"     // Direct questioning
	ModeGuided    Mode = "guided"    // Turn-by-turn dialogue (maieutic)
	ModeAutomated Mode = "automated" // Self-administered deep analysis
)

// Modes returns every supported mode in display order
func Modes() []Mode {
	return []Mode{ModeBasic, ModeGuided, ModeAutomated}
}

// IsValid reports whether m is one of the supported modes
func (m Mode) IsValid() bool {
	switch m {
	case ModeBasic, ModeGuided, ModeAutomated:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts user input into a Mode.
// The historical names "deep-ask" and "deep-auto" are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return ModeBasic, nil
	case "guided", "deep-ask":
		return ModeGuided, nil
	case "automated", "deep-auto":
		return ModeAutomated, nil
	}
	return "", fmt.Errorf("%w %q (choose from basic, guided, automated)", ErrInvalidMode, s)
}
