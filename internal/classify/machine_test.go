package classify

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/sst/internal/model"
)

func TestMachine_SetState(t *testing.T) {
	m := NewMachine()

	if err := m.SetState(StateHyp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.History()) != 0 {
		t.Errorf("first SetState should not record a transition, got %v", m.History())
	}

	if err := m.SetState(StateFact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Transition{{From: StateHyp, To: StateFact, Reason: ReasonManualSet}}
	if diff := cmp.Diff(want, m.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_SetStateInvalid(t *testing.T) {
	m := NewMachine()

	for _, s := range []State{"", "MAYBE", "fact"} {
		err := m.SetState(s)
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("SetState(%q): expected ErrInvalidState, got %v", s, err)
		}
		if !errors.Is(err, model.ErrState) {
			t.Errorf("SetState(%q): expected error in the state category, got %v", s, err)
		}
	}
	if m.Current() != "" {
		t.Errorf("invalid SetState should not change state, got %q", m.Current())
	}
}

func TestMachine_TransitionsRequireState(t *testing.T) {
	m := NewMachine()

	if _, err := m.Downgrade("x"); !errors.Is(err, ErrStateNotSet) {
		t.Errorf("Downgrade on unset machine: expected ErrStateNotSet, got %v", err)
	}
	if _, err := m.Upgrade("x"); !errors.Is(err, ErrStateNotSet) {
		t.Errorf("Upgrade on unset machine: expected ErrStateNotSet, got %v", err)
	}
	if _, err := m.Value(); !errors.Is(err, model.ErrState) {
		t.Errorf("Value on unset machine: expected state error, got %v", err)
	}
}

func TestMachine_DowngradeChain(t *testing.T) {
	m := NewMachine()
	_ = m.SetState(StateFact)

	steps := []State{StateHyp, StateUnk, StateUnk, StateUnk}
	for i, want := range steps {
		got, err := m.Downgrade("weak evidence")
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("step %d: expected %s, got %s", i, want, got)
		}
	}

	if len(m.History()) != 2 {
		t.Errorf("expected 2 transitions (floor moves are no-ops), got %d", len(m.History()))
	}
	if diff := cmp.Diff([]string{"weak evidence", "weak evidence"}, m.DowngradeReasons()); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_DowngradeDefaultReason(t *testing.T) {
	m := NewMachine()
	_ = m.SetState(StateHyp)
	_, _ = m.Downgrade("")

	if got := m.History()[0].Reason; got != ReasonDowngrade {
		t.Errorf("expected default reason %q, got %q", ReasonDowngrade, got)
	}
	if len(m.DowngradeReasons()) != 0 {
		t.Errorf("empty reason should not be logged, got %v", m.DowngradeReasons())
	}
}

func TestMachine_UpgradeChain(t *testing.T) {
	m := NewMachine()
	_ = m.SetState(StateUnk)

	for i, want := range []State{StateHyp, StateFact, StateFact} {
		got, err := m.Upgrade("")
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("step %d: expected %s, got %s", i, want, got)
		}
	}

	want := []Transition{
		{From: StateUnk, To: StateHyp, Reason: ReasonUpgrade},
		{From: StateHyp, To: StateFact, Reason: ReasonUpgrade},
	}
	if diff := cmp.Diff(want, m.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if len(m.DowngradeReasons()) != 0 {
		t.Error("upgrades should not log downgrade reasons")
	}
}

func TestMachine_FloorAndCeilingAreIdempotent(t *testing.T) {
	floor := NewMachine()
	_ = floor.SetState(StateUnk)
	if got, _ := floor.Downgrade("again"); got != StateUnk {
		t.Errorf("UNK downgrade: expected UNK, got %s", got)
	}
	if len(floor.History()) != 0 {
		t.Errorf("UNK downgrade recorded a transition: %v", floor.History())
	}

	ceiling := NewMachine()
	_ = ceiling.SetState(StateFact)
	if got, _ := ceiling.Upgrade("again"); got != StateFact {
		t.Errorf("FACT upgrade: expected FACT, got %s", got)
	}
	if len(ceiling.History()) != 0 {
		t.Errorf("FACT upgrade recorded a transition: %v", ceiling.History())
	}
}

func TestMachine_ClassifyFromScores(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		hasSources bool
		coherence  float64
		want       State
	}{
		{"high with sources", 90, true, 1.0, StateFact},
		{"high without sources", 90, false, 1.0, StateHyp},
		{"low", 30, false, 1.0, StateUnk},
		{"exactly 85 with sources", 85, true, 1.0, StateFact},
		{"exactly 50", 50, true, 1.0, StateHyp},
		{"coherence pulls FACT down", 90, true, 0.9, StateHyp},
		{"coherence pulls HYP down", 60, true, 0.5, StateUnk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			got := m.ClassifyFromScores(tt.confidence, tt.hasSources, tt.coherence)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if m.Current() != tt.want {
				t.Errorf("machine state %s does not match returned %s", m.Current(), tt.want)
			}
		})
	}
}

func TestMachine_EvaluateWithSelfTest(t *testing.T) {
	tests := []struct {
		name       string
		statement  string
		sources    []string
		confidence float64
		wantState  State
		wantReason []string
		wantMoves  int
	}{
		{
			name:       "coherent sourced claim stays FACT",
			statement:  "Water boils at 100 degrees Celsius at sea level.",
			sources:    []string{"CRC Handbook"},
			confidence: 90,
			wantState:  StateFact,
			wantReason: []string{},
		},
		{
			name:       "unsourced claim never reaches FACT",
			statement:  "Water boils at 100 degrees Celsius at sea level.",
			confidence: 90,
			wantState:  StateHyp,
			wantReason: []string{},
		},
		{
			name:       "uncertainty downgrades once",
			statement:  "The treatment may reduce symptoms in adults",
			sources:    []string{"Clinical study"},
			confidence: 90,
			wantState:  StateHyp,
			wantReason: []string{ReasonUncertainty},
			wantMoves:  1,
		},
		{
			name:       "uncertainty and low coherence downgrade cumulatively",
			statement:  "Prices may always rise and never fall, more or less",
			sources:    []string{"Market report"},
			confidence: 900,
			wantState:  StateUnk,
			wantReason: []string{ReasonUncertainty, ReasonLowCoherence},
			wantMoves:  2,
		},
		{
			name:       "downgrade at the floor is silent",
			statement:  "It might rain tomorrow?",
			sources:    []string{"Forecast"},
			confidence: DefaultInitialConfidence,
			wantState:  StateUnk,
			wantReason: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMachine().EvaluateWithSelfTest(tt.statement, tt.sources, tt.confidence)

			if got.FinalState != tt.wantState {
				t.Errorf("expected final state %s, got %s (history %v)", tt.wantState, got.FinalState, got.History)
			}
			if diff := cmp.Diff(tt.wantReason, got.DowngradeReasons); diff != "" {
				t.Errorf("reasons mismatch (-want +got):\n%s", diff)
			}
			if len(got.History) != tt.wantMoves {
				t.Errorf("expected %d transitions, got %d", tt.wantMoves, len(got.History))
			}
			if got.AdjustedConfidence != tt.confidence*got.CoherenceFactor {
				t.Errorf("adjusted confidence %v != %v * %v", got.AdjustedConfidence, tt.confidence, got.CoherenceFactor)
			}
		})
	}
}

func TestMachine_Description(t *testing.T) {
	m := NewMachine()
	if got := m.Description(); got != "Not yet classified" {
		t.Errorf("unexpected unset description %q", got)
	}
	_ = m.SetState(StateHyp)
	if got := m.Description(); got != "Hypothesis - plausible but needs verification" {
		t.Errorf("unexpected HYP description %q", got)
	}
}

func TestMachine_Snapshot(t *testing.T) {
	m := NewMachine()
	if snap := m.Snapshot(); snap.Value != nil {
		t.Errorf("unset machine should have no value, got %d", *snap.Value)
	}

	_ = m.SetState(StateHyp)
	_, _ = m.Downgrade("no data")

	snap := m.Snapshot()
	if snap.Current != StateUnk || snap.Value == nil || *snap.Value != -1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if len(snap.History) != 1 || len(snap.DowngradeReasons) != 1 {
		t.Errorf("snapshot should carry history and reasons, got %+v", snap)
	}
}

func TestParseState(t *testing.T) {
	for in, want := range map[string]State{"fact": StateFact, " Hyp ": StateHyp, "UNK": StateUnk} {
		got, err := ParseState(in)
		if err != nil || got != want {
			t.Errorf("ParseState(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseState("maybe"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
