package classify

import (
	"fmt"

	"github.com/ppiankov/sst/internal/heuristics"
)

// DefaultInitialConfidence is the starting confidence used by EvaluateWithSelfTest
const DefaultInitialConfidence = 75.0

// Reasons recorded by the machine and its automatic downgrades
const (
	ReasonManualSet    = "manual_set"
	ReasonDowngrade    = "downgrade"
	ReasonUpgrade      = "upgrade"
	ReasonUncertainty  = "Contains uncertainty indicators"
	ReasonNoSources    = "FACT claim lacks sources"
	ReasonLowCoherence = "Low coherence score"
)

// lowCoherence is the coherence factor below which a claim is downgraded
const lowCoherence = 0.5

// Transition records one change of state
type Transition struct {
	From   State  `json:"from" yaml:"from"`
	To     State  `json:"to" yaml:"to"`
	Reason string `json:"reason" yaml:"reason"`
}

// Machine tracks the classification of a single claim.
// History only grows; a new evaluation should use a new Machine.
type Machine struct {
	current State
	history []Transition
	reasons []string
}

// NewMachine creates an unclassified machine
func NewMachine() *Machine {
	return &Machine{}
}

// Current returns the current state, "" when unset
func (m *Machine) Current() State { return m.current }

// IsFact reports whether the current state is FACT
func (m *Machine) IsFact() bool { return m.current == StateFact }

// IsHyp reports whether the current state is HYP
func (m *Machine) IsHyp() bool { return m.current == StateHyp }

// IsUnk reports whether the current state is UNK
func (m *Machine) IsUnk() bool { return m.current == StateUnk }

// Value returns the numeric value of the current state
func (m *Machine) Value() (int, error) { return m.current.Value() }

// Description describes the current state
func (m *Machine) Description() string { return m.current.Description() }

// History returns a copy of the recorded transitions
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// DowngradeReasons returns a copy of the reasons given for actual downgrades
func (m *Machine) DowngradeReasons() []string {
	out := make([]string, len(m.reasons))
	copy(out, m.reasons)
	return out
}

// SetState sets the state directly. A transition is recorded when a prior state existed.
func (m *Machine) SetState(s State) error {
	if !s.IsValid() {
		return fmt.Errorf("%w %q (must be one of FACT, HYP, UNK)", ErrInvalidState, string(s))
	}
	if m.current != "" {
		m.history = append(m.history, Transition{From: m.current, To: s, Reason: ReasonManualSet})
	}
	m.current = s
	return nil
}

// Downgrade moves one step down (FACT -> HYP -> UNK). UNK stays UNK.
func (m *Machine) Downgrade(reason string) (State, error) {
	if m.current == "" {
		return "", ErrStateNotSet
	}

	from := m.current
	m.current = from.Lower()
	if from != m.current {
		m.history = append(m.history, Transition{From: from, To: m.current, Reason: orDefault(reason, ReasonDowngrade)})
		if reason != "" {
			m.reasons = append(m.reasons, reason)
		}
	}
	return m.current, nil
}

// Upgrade moves one step up (UNK -> HYP -> FACT). FACT stays FACT.
func (m *Machine) Upgrade(reason string) (State, error) {
	if m.current == "" {
		return "", ErrStateNotSet
	}

	from := m.current
	m.current = from.Higher()
	if from != m.current {
		m.history = append(m.history, Transition{From: from, To: m.current, Reason: orDefault(reason, ReasonUpgrade)})
	}
	return m.current, nil
}

// ClassifyFromScores sets the state from confidence (0-100) scaled by a
// coherence factor (0-1) and returns it
func (m *Machine) ClassifyFromScores(confidence float64, hasSources bool, coherence float64) State {
	s := Threshold(confidence*coherence, hasSources)
	// Threshold only yields valid states
	_ = m.SetState(s)
	return s
}

// Evaluation is the outcome of EvaluateWithSelfTest
type Evaluation struct {
	Statement          string              `json:"statement" yaml:"statement"`
	InitialConfidence  float64             `json:"initial_confidence" yaml:"initial_confidence"`
	AdjustedConfidence float64             `json:"adjusted_confidence" yaml:"adjusted_confidence"`
	CoherenceFactor    float64             `json:"coherence_factor" yaml:"coherence_factor"`
	FinalState         State               `json:"final_state" yaml:"final_state"`
	History            []Transition        `json:"state_history" yaml:"state_history"`
	DowngradeReasons   []string            `json:"downgrade_reasons" yaml:"downgrade_reasons"`
	Analysis           heuristics.Analysis `json:"analysis" yaml:"analysis"`
}

// EvaluateWithSelfTest classifies a statement from a fresh heuristic analysis.
//
// The initial state comes from the initial confidence scaled by the
// coherence factor. Three independent checks then run in order and may each
// downgrade once: uncertain language, FACT without sources, and a coherence
// factor below 0.5.
func (m *Machine) EvaluateWithSelfTest(statement string, sources []string, initialConfidence float64) Evaluation {
	analysis := heuristics.NewAnalyzer().AnalyzeStatement(statement)

	coherence := analysis.CoherenceScore
	adjusted := initialConfidence * coherence
	hasSources := len(sources) > 0

	_ = m.SetState(Threshold(adjusted, hasSources))

	if analysis.HasUncertainty {
		_, _ = m.Downgrade(ReasonUncertainty)
	}
	if m.IsFact() && !hasSources {
		_, _ = m.Downgrade(ReasonNoSources)
	}
	if coherence < lowCoherence {
		_, _ = m.Downgrade(ReasonLowCoherence)
	}

	return Evaluation{
		Statement:          statement,
		InitialConfidence:  initialConfidence,
		AdjustedConfidence: adjusted,
		CoherenceFactor:    coherence,
		FinalState:         m.current,
		History:            m.History(),
		DowngradeReasons:   m.DowngradeReasons(),
		Analysis:           analysis,
	}
}

// Snapshot is an exportable view of the machine
type Snapshot struct {
	Current          State        `json:"current_state" yaml:"current_state"`
	Value            *int         `json:"state_value" yaml:"state_value"`
	Description      string       `json:"description" yaml:"description"`
	History          []Transition `json:"state_history" yaml:"state_history"`
	DowngradeReasons []string     `json:"downgrade_reasons" yaml:"downgrade_reasons"`
}

// Snapshot exports the current state, its value, and the recorded history
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		Current:          m.current,
		Description:      m.Description(),
		History:          m.History(),
		DowngradeReasons: m.DowngradeReasons(),
	}
	if v, err := m.Value(); err == nil {
		snap.Value = &v
	}
	return snap
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
