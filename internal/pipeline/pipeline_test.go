package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/pipeline"
)

func newPipeline(t *testing.T, mode model.Mode) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(mode)
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidMode(t *testing.T) {
	p, err := pipeline.New(model.Mode("socratic"))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, model.ErrInvalidMode))
	assert.True(t, errors.Is(err, model.ErrConfiguration))
	assert.Contains(t, err.Error(), "socratic")
}

func TestNewSelectsFormatter(t *testing.T) {
	tests := []struct {
		mode model.Mode
		name string
	}{
		{model.ModeBasic, "basic"},
		{model.ModeGuided, "guided"},
		{model.ModeAutomated, "automated"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := newPipeline(t, tt.mode)
			assert.Equal(t, tt.mode, p.Mode())
			assert.Equal(t, tt.name, p.Formatter().Name())
		})
	}
}

func TestQuantifyConfidence(t *testing.T) {
	tests := []struct {
		name      string
		sources   []string
		coherence float64
		want      float64
	}{
		{"two sources", []string{"A", "B"}, 80, 60},
		{"source score capped", []string{"A", "B", "C", "D", "E"}, 50, 50},
		{"no sources", nil, 60, 30},
		{"ceiling", []string{"A", "B", "C"}, 400, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, model.ModeBasic)
			assert.InDelta(t, tt.want, p.QuantifyConfidence(tt.sources, tt.coherence), 1e-9)
			assert.Equal(t, []string{pipeline.StageConfidence}, p.Steps())
		})
	}
}

func TestSourceScore(t *testing.T) {
	assert.Equal(t, 0.0, pipeline.SourceScore(0))
	assert.Equal(t, 40.0, pipeline.SourceScore(2))
	assert.Equal(t, 50.0, pipeline.SourceScore(3))
	assert.Equal(t, 50.0, pipeline.SourceScore(10))
}

func TestRunWaterClaim(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	report := p.Run("Water boils at 100 degrees Celsius at sea level.",
		[]string{"Physics textbook", "NIST", "Encyclopedia"}, 100)

	assert.Equal(t, "Water boils at 100 degrees Celsius at sea level.", report.Claim)
	assert.Equal(t, model.ModeBasic, report.Mode)
	assert.InDelta(t, 75.0, report.Confidence(), 1e-9)
	assert.Equal(t, "HYP", report.Label())
	assert.Equal(t, 50.0, report.Results["step6"].Data["source_score"])
	assert.Nil(t, report.AutoAnalysis)
	assert.Contains(t, report.Text, "HYP")
}

func TestRunDarkMatterClaim(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	report := p.Run("Dark matter exists.", nil, 60)

	assert.InDelta(t, 30.0, report.Confidence(), 1e-9)
	assert.Equal(t, "UNK", report.Label())
	assert.Equal(t, false, report.Results["step3"].Data["has_sources"])
}

func TestRunStageOrder(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	report := p.Run("Dark matter exists.", nil, 60)

	want := []string{
		pipeline.StageFormulate,
		pipeline.StageAssume,
		pipeline.StageSources,
		pipeline.StageCoherence,
		pipeline.StageConfidence,
		pipeline.StageClassify,
		pipeline.StageReport,
	}
	assert.Equal(t, want, report.Steps)
	for _, key := range []string{"step1", "step2", "step3", "step4", "step5", "step6", "step7"} {
		assert.Contains(t, report.Results, key)
	}
}

func TestRunResetsBetweenClaims(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	p.Run("Dark matter exists.", nil, 60)
	report := p.Run("Water boils at 100 degrees Celsius at sea level.", []string{"A", "B", "C"}, 100)

	assert.Len(t, report.Steps, 7)
	assert.Equal(t, "Water boils at 100 degrees Celsius at sea level.", p.Claim())
	assert.Equal(t, []string{"Water boils at 100 degrees Celsius at sea level."},
		report.Results["step2"].Data["assumptions"])
}

func TestRunLowCoherenceScalesConfidence(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	// always/never costs 0.3 internally and 0.2 against the claim itself
	report := p.Run("Prices always rise and never fall.", []string{"A", "B", "C"}, 100)

	step5 := report.Results["step5"].Data
	assert.InDelta(t, 0.5, step5["coherence_factor"], 1e-9)
	assert.InDelta(t, 37.5, step5["effective_confidence"], 1e-9)
	assert.Equal(t, "UNK", report.Label())
}

func TestClassifyWithoutCoherenceStage(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	p.Formulate("Water boils at 100 degrees Celsius at sea level.")

	r := p.Classify(90, true)
	assert.Equal(t, "FACT", r.Data["label"])
	assert.Equal(t, 1.0, r.Data["coherence_factor"])
	assert.Equal(t, "FACT", p.State().String())
}

func TestFormulateTrims(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	r := p.Formulate("  The sky is blue.  \n")
	assert.Equal(t, "The sky is blue.", r.Data["statement"])
	assert.Equal(t, true, r.Data["is_valid"])
	assert.Equal(t, model.StatusCompleted, r.Status)

	r = p.Formulate("   ")
	assert.Equal(t, false, r.Data["is_valid"])
}

func TestIdentifySourcesAutomated(t *testing.T) {
	p := newPipeline(t, model.ModeAutomated)

	r := p.IdentifySources(nil)
	assert.Equal(t, true, r.Data["requires_sources"])
	assert.Contains(t, r.Data, "source_quality")

	basic := newPipeline(t, model.ModeBasic)
	r = basic.IdentifySources([]string{"A"})
	assert.NotContains(t, r.Data, "source_quality")
	assert.NotContains(t, r.Data, "requires_sources")
}

func TestRunAutomatedAttachesAnalysis(t *testing.T) {
	p := newPipeline(t, model.ModeAutomated)
	report := p.Run("Water boils at 100 degrees Celsius at sea level.",
		[]string{"Physics textbook", "NIST", "Encyclopedia"}, 100)

	require.NotNil(t, report.AutoAnalysis)
	assert.Equal(t, "Water boils at 100 degrees Celsius at sea level.", report.AutoAnalysis.Statement)
	assert.Len(t, report.AutoAnalysis.Sources, 3)
	assert.NotEmpty(t, report.Text)
	assert.Equal(t, "HYP", report.Label())
}

func TestGenerateReportCopiesResults(t *testing.T) {
	p := newPipeline(t, model.ModeBasic)
	p.Formulate("Dark matter exists.")

	in := map[string]model.StageResult{"step1": {Step: 1, Name: "Statement Formulation"}}
	report := p.GenerateReport(in)

	assert.Len(t, in, 1)
	assert.Contains(t, report.Results, "step7")
	assert.Equal(t, "Dark matter exists.", report.Results["step7"].Data["claim"])
}
