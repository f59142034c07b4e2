package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/sst/internal/prompt"
)

func TestAuto_EvaluateSources(t *testing.T) {
	tests := []struct {
		name           string
		sources        []string
		wantScore      float64
		recommendation string
	}{
		{"no sources", nil, 0, prompt.RecommendRequiresSources},
		{"non-academic", []string{"A personal blog"}, 50, prompt.RecommendImprove},
		{"academic", []string{"CRC Handbook of Chemistry and Physics"}, 80, prompt.RecommendAdequate},
		{"mixed average", []string{"NIST Standard Reference Database", "A personal blog"}, 65, prompt.RecommendAdequate},
	}

	auto := prompt.NewAuto()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := auto.EvaluateSources(tt.sources)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.recommendation, got.Metadata["recommendation"])
			assert.NotEmpty(t, got.Findings)
		})
	}
}

func TestAuto_StatementQuality(t *testing.T) {
	auto := prompt.NewAuto()

	full := auto.StatementQuality("Water boils at 100 degrees Celsius at sea level.")
	assert.Equal(t, 100.0, full.Score)
	assert.Len(t, full.Findings, 4)

	vague := auto.StatementQuality("Many say so...")
	// ambiguous 0, short 10, no testable indicator 10, trailing ellipsis 10
	assert.Equal(t, 30.0, vague.Score)
	assert.Contains(t, vague.Findings, "Clarity: FAIL - ambiguous language detected")
}

func TestAuto_ExtractAssumptions(t *testing.T) {
	got := prompt.NewAuto().ExtractAssumptions("Water boils at 100 degrees Celsius at sea level.")

	assert.Equal(t, []string{
		"[DEFINITIONAL] Terms assumed understood: degrees, Celsius",
		"[CONTEXTUAL] Statement context is assumed to be clear",
		"[EMPIRICAL] Empirical basis is assumed verifiable",
	}, got.Findings)
	assert.Equal(t, 30.0, got.Score)
}

func TestAuto_TestCoherence(t *testing.T) {
	auto := prompt.NewAuto()

	clean := auto.TestCoherence("Water boils at 100 degrees Celsius at sea level.")
	assert.Equal(t, 100.0, clean.Score)
	assert.Equal(t, 0, clean.Metadata["contradiction_count"])

	contradictory := auto.TestCoherence("Prices always rise and never fall")
	assert.Equal(t, 75.0, contradictory.Score)
	assert.Equal(t, 1, contradictory.Metadata["contradiction_count"])
	assert.Contains(t, contradictory.Findings, "[x] internal_consistency: FAIL")
}

func TestAuto_FullAnalysis(t *testing.T) {
	sources := []string{"CRC Handbook", "NIST Database", "Textbook"}
	got := prompt.NewAuto().FullAnalysis("Water boils at 100 degrees Celsius at sea level.", sources, 100)

	assert.Equal(t, 50.0, got.SourceScore)
	assert.Equal(t, 75.0, got.Confidence)
	assert.Equal(t, "HYP", got.Label)
	assert.Equal(t, sources, got.Sources)
	assert.Empty(t, got.Issues)
}
