// Package pipeline runs the seven-stage Socratic Stress Test over a claim.
//
// Stages are numbered conceptually 1 to 7, but Run executes confidence
// quantification (6) before classification (5) because the classifier needs
// the confidence value.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ppiankov/sst/internal/classify"
	"github.com/ppiankov/sst/internal/heuristics"
	"github.com/ppiankov/sst/internal/logging"
	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/prompt"
)

// DefaultCoherenceScore is the initial coherence (0-100) used when none is given
const DefaultCoherenceScore = 75.0

// Stage names recorded in Report.Steps
const (
	StageFormulate  = "step1_formulate_statement"
	StageAssume     = "step2_extract_assumptions"
	StageSources    = "step3_identify_sources"
	StageCoherence  = "step4_test_coherence"
	StageClassify   = "step5_classify_claim"
	StageConfidence = "step6_quantify_confidence"
	StageReport     = "step7_generate_report"
)

const (
	perSourceScore = 20.0
	maxSourceScore = 50.0
	maxConfidence  = 100.0
)

// Pipeline evaluates claims in one operating mode.
// It is not safe for concurrent use; Run resets all per-claim state.
type Pipeline struct {
	mode      model.Mode
	formatter prompt.Formatter
	logger    *slog.Logger

	heuristics *heuristics.Analyzer
	machine    *classify.Machine

	steps     []string
	claim     string
	sources   []string
	coherence *float64 // Mean assumption coherence (0-1), nil when none evaluated
	auto      *model.AutoAnalysis
	summary   string
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for stage tracing and formatter warnings
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a pipeline for mode. The mode is validated immediately and
// selects the formatter for the lifetime of the pipeline.
func New(mode model.Mode, opts ...Option) (*Pipeline, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w %q (choose from basic, guided, automated)", model.ErrInvalidMode, string(mode))
	}

	formatter, err := prompt.For(mode)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		mode:       mode,
		formatter:  formatter,
		logger:     logging.New("pipeline"),
		heuristics: heuristics.NewAnalyzer(),
		machine:    classify.NewMachine(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Mode returns the operating mode
func (p *Pipeline) Mode() model.Mode { return p.mode }

// Formatter returns the formatter selected for the mode
func (p *Pipeline) Formatter() prompt.Formatter { return p.formatter }

// Claim returns the current claim set by Formulate
func (p *Pipeline) Claim() string { return p.claim }

// Steps returns the names of completed stages in execution order
func (p *Pipeline) Steps() []string {
	return append([]string(nil), p.steps...)
}

// State returns the current classification, "" before Classify
func (p *Pipeline) State() classify.State { return p.machine.Current() }

// reset discards everything left over from a previous claim
func (p *Pipeline) reset() {
	p.heuristics = heuristics.NewAnalyzer()
	p.machine = classify.NewMachine()
	p.steps = nil
	p.claim = ""
	p.sources = nil
	p.coherence = nil
	p.auto = nil
	p.summary = ""
}

func (p *Pipeline) complete(stage string) {
	p.steps = append(p.steps, stage)
	p.logger.Debug("stage completed", "stage", stage, "mode", p.mode)
}

// Formulate (stage 1) trims the statement and stores it as the current claim
func (p *Pipeline) Formulate(statement string) model.StageResult {
	p.claim = strings.TrimSpace(statement)
	p.complete(StageFormulate)

	return model.StageResult{
		Step:   1,
		Name:   "Statement Formulation",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"statement": p.claim,
			"is_valid":  p.claim != "",
		},
	}
}

// ExtractAssumptions (stage 2) flags assumptive and uncertain language in the claim
func (p *Pipeline) ExtractAssumptions() model.StageResult {
	data := []string{p.claim}
	assumptions := p.heuristics.ExtractAssumptions(data)
	unknowns := p.heuristics.IdentifyUnknowns(data)
	p.complete(StageAssume)

	return model.StageResult{
		Step:   2,
		Name:   "Assumption Extraction",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"assumptions":      assumptions,
			"assumption_count": len(assumptions),
			"unknowns":         unknowns,
		},
	}
}

// IdentifySources (stage 3) records the sources. Formatters that can
// evaluate sources also score their quality (0-100).
func (p *Pipeline) IdentifySources(sources []string) model.StageResult {
	p.sources = append([]string(nil), sources...)

	data := map[string]interface{}{
		"sources":      p.sources,
		"source_count": len(p.sources),
		"has_sources":  len(p.sources) > 0,
	}

	if ev, ok := p.formatter.(prompt.SourceEvaluator); ok {
		finding := ev.EvaluateSources(p.sources)
		data["source_quality"] = finding.Score
		data["source_findings"] = finding.Findings
		data["recommendation"] = finding.Metadata["recommendation"]
		data["requires_sources"] = len(p.sources) == 0
	}

	p.complete(StageSources)

	return model.StageResult{
		Step:   3,
		Name:   "Source Identification",
		Status: model.StatusCompleted,
		Data:   data,
	}
}

// TestCoherence (stage 4) scores each assumption against the claim.
// Assumptions are extracted first when none exist yet. The mean score
// becomes the classification factor only if something was evaluated.
func (p *Pipeline) TestCoherence() model.StageResult {
	if len(p.heuristics.Assumptions()) == 0 {
		p.heuristics.ExtractAssumptions([]string{p.claim})
	}

	results := p.heuristics.EvaluateCoherence([]string{p.claim})
	score := p.heuristics.CoherenceScore()
	if len(results) > 0 {
		p.coherence = &score
	}
	p.complete(StageCoherence)

	return model.StageResult{
		Step:   4,
		Name:   "Coherence Testing",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"coherence_results": results,
			"coherence_score":   score,
		},
	}
}

// Classify (stage 5) assigns FACT, HYP or UNK from a confidence (0-100),
// scaled by the coherence factor from stage 4 (1.0 when absent)
func (p *Pipeline) Classify(confidence float64, hasSources bool) model.StageResult {
	factor := 1.0
	if p.coherence != nil {
		factor = *p.coherence
	}

	label := p.machine.ClassifyFromScores(confidence, hasSources, factor)
	p.complete(StageClassify)

	return model.StageResult{
		Step:   5,
		Name:   "Classification",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"label":                label.String(),
			"confidence":           confidence,
			"has_sources":          hasSources,
			"coherence_factor":     factor,
			"effective_confidence": confidence * factor,
			"description":          label.Description(),
			"state_history":        p.machine.History(),
		},
	}
}

// QuantifyConfidence (stage 6) combines the source count with a coherence
// score on the 0-100 scale. A 0-1 heuristic score must be converted by the
// caller; it is not rescaled here.
func (p *Pipeline) QuantifyConfidence(sources []string, coherence float64) float64 {
	p.complete(StageConfidence)
	return Confidence(len(sources), coherence)
}

// SourceScore is the source contribution to confidence: 20 per source, at most 50
func SourceScore(count int) float64 {
	return math.Min(float64(count)*perSourceScore, maxSourceScore)
}

// Confidence averages the source score and a 0-100 coherence score, capped at 100
func Confidence(sourceCount int, coherence float64) float64 {
	return math.Min((SourceScore(sourceCount)+coherence)/2, maxConfidence)
}

// GenerateReport (stage 7) assembles the report from the stage results and
// renders it with the mode's formatter. A rendering failure only leaves
// Report.Text empty.
func (p *Pipeline) GenerateReport(results map[string]model.StageResult) *model.Report {
	p.complete(StageReport)

	report := &model.Report{
		Claim:        p.claim,
		Mode:         p.mode,
		Steps:        p.Steps(),
		Results:      make(map[string]model.StageResult, len(results)+1),
		AutoAnalysis: p.auto,
	}
	for k, v := range results {
		report.Results[k] = v
	}
	report.Results["step7"] = model.StageResult{
		Step:   7,
		Name:   "Reporting",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"claim":           p.claim,
			"mode":            p.mode.String(),
			"steps_completed": report.Steps,
		},
	}

	text, err := p.formatter.Report(p.reportInput(report.Results))
	if err != nil {
		p.logger.Warn("report rendering skipped", "formatter", p.formatter.Name(), "error", err)
	} else {
		report.Text = text
	}

	return report
}

// Run executes every stage for one claim and returns the report.
// initialCoherence is on the 0-100 scale.
func (p *Pipeline) Run(statement string, sources []string, initialCoherence float64) *model.Report {
	p.reset()

	r1 := p.Formulate(statement)
	r2 := p.ExtractAssumptions()
	r3 := p.IdentifySources(sources)
	r4 := p.TestCoherence()
	confidence := p.QuantifyConfidence(sources, initialCoherence)
	r5 := p.Classify(confidence, len(sources) > 0)

	results := map[string]model.StageResult{
		"step1": r1,
		"step2": r2,
		"step3": r3,
		"step4": r4,
		"step5": r5,
		"step6": confidenceResult(len(sources), initialCoherence, confidence),
	}

	if aa, ok := p.formatter.(prompt.AutoAnalyzer); ok {
		analysis := aa.FullAnalysis(p.claim, p.sources, initialCoherence)
		p.auto = &analysis
	}

	report := p.GenerateReport(results)
	p.logger.Info("claim evaluated", "label", report.Label(), "confidence", confidence, "mode", p.mode)
	return report
}

func confidenceResult(sourceCount int, coherence, confidence float64) model.StageResult {
	return model.StageResult{
		Step:   6,
		Name:   "Confidence Quantification",
		Status: model.StatusCompleted,
		Data: map[string]interface{}{
			"confidence":      confidence,
			"source_score":    SourceScore(sourceCount),
			"coherence_score": coherence,
		},
	}
}

// reportInput collects what the formatter needs from the stage results
func (p *Pipeline) reportInput(results map[string]model.StageResult) prompt.ReportInput {
	in := prompt.ReportInput{
		Statement:   p.claim,
		Sources:     p.sources,
		Assumptions: p.heuristics.Assumptions(),
		Questions:   p.heuristics.ProposeQuestions(),
		Summary:     p.summary,
	}

	if label, ok := results["step5"].Data["label"].(string); ok {
		in.Label = label
	}
	if c, ok := results["step6"].Data["confidence"].(float64); ok {
		in.Confidence = c
	} else if c, ok := results["step5"].Data["confidence"].(float64); ok {
		in.Confidence = c
	}

	if p.auto != nil {
		var strengths []string
		for _, f := range p.auto.StatementQuality.Findings {
			if strings.HasSuffix(f, "PASS") {
				strengths = append(strengths, f)
			}
		}
		in.Auto = &prompt.AutoDetails{
			Issues:         p.auto.Issues,
			Strengths:      strengths,
			StatementScore: p.auto.StatementQuality.Score,
			SourceQuality:  p.auto.SourceQuality.Score,
			CoherenceScore: p.auto.CoherenceScore,
		}
	}

	return in
}
