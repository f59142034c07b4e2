// Package classify holds the FACT/HYP/UNK epistemic state machine.
package classify

import (
	"fmt"
	"strings"

	"github.com/ppiankov/sst/internal/model"
)

// State is an epistemic classification, ordered FACT > HYP > UNK.
// The zero value means the claim has not been classified yet.
type State string

const (
	StateFact State = "FACT" // High confidence, verified claim
	StateHyp  State = "HYP"  // Plausible but unverified
	StateUnk  State = "UNK"  // Insufficient evidence
)

// Classification thresholds on effective confidence (0-100)
const (
	FactThreshold = 85.0
	HypThreshold  = 50.0
)

var (
	// ErrInvalidState is returned when a state literal is not FACT, HYP or UNK
	ErrInvalidState = fmt.Errorf("%w: invalid state", model.ErrState)
	// ErrStateNotSet is returned when a transition is requested before classification
	ErrStateNotSet = fmt.Errorf("%w: current state is not set", model.ErrState)
)

// IsValid reports whether s is one of the three classification states
func (s State) IsValid() bool {
	switch s {
	case StateFact, StateHyp, StateUnk:
		return true
	default:
		return false
	}
}

// Value returns +1 for FACT, 0 for HYP and -1 for UNK
func (s State) Value() (int, error) {
	switch s {
	case StateFact:
		return 1, nil
	case StateHyp:
		return 0, nil
	case StateUnk:
		return -1, nil
	}
	if s == "" {
		return 0, ErrStateNotSet
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidState, string(s))
}

// Lower returns the next state down, floored at UNK
func (s State) Lower() State {
	switch s {
	case StateFact:
		return StateHyp
	default:
		return StateUnk
	}
}

// Higher returns the next state up, capped at FACT
func (s State) Higher() State {
	switch s {
	case StateUnk:
		return StateHyp
	default:
		return StateFact
	}
}

// Description returns a human-readable meaning of the state
func (s State) Description() string {
	switch s {
	case StateFact:
		return "Verified fact with high confidence"
	case StateHyp:
		return "Hypothesis - plausible but needs verification"
	case StateUnk:
		return "Unknown - insufficient evidence to classify"
	case "":
		return "Not yet classified"
	default:
		return "Invalid state"
	}
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a case-insensitive label such as "fact" into a State
func ParseState(label string) (State, error) {
	s := State(strings.ToUpper(strings.TrimSpace(label)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w %q (must be one of FACT, HYP, UNK)", ErrInvalidState, label)
	}
	return s, nil
}

// Threshold applies the classification rule to an effective confidence:
// FACT needs at least 85 and sources, HYP needs at least 50, anything else is UNK.
func Threshold(effective float64, hasSources bool) State {
	switch {
	case effective >= FactThreshold && hasSources:
		return StateFact
	case effective >= HypThreshold:
		return StateHyp
	default:
		return StateUnk
	}
}
