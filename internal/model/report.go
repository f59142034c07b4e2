package model

// Report is the assembled result of a full seven-stage evaluation
type Report struct {
	Claim   string                 `json:"claim" yaml:"claim"`                     // The formulated claim
	Mode    Mode                   `json:"mode" yaml:"mode"`                       // Operating mode of the pipeline
	Steps   []string               `json:"steps_completed" yaml:"steps_completed"` // Stage names in execution order
	Results map[string]StageResult `json:"results" yaml:"results"`                 // Per-stage results keyed step1..step7

	AutoAnalysis *AutoAnalysis `json:"auto_analysis,omitempty" yaml:"auto_analysis,omitempty"` // Automated mode only
	Text         string        `json:"text,omitempty" yaml:"text,omitempty"`                   // Formatter output, empty if rendering failed
}

// StageResult is the outcome of one pipeline stage.
// Data carries the transparent inputs and outputs of the stage.
type StageResult struct {
	Step   int                    `json:"step" yaml:"step"`
	Name   string                 `json:"name" yaml:"name"`
	Status string                 `json:"status" yaml:"status"`
	Data   map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// StatusCompleted marks a stage that ran to completion
const StatusCompleted = "completed"

// Label returns the classification label from stage 5, or "" if absent
func (r *Report) Label() string {
	if r == nil {
		return ""
	}
	if s, ok := r.Results["step5"].Data["label"].(string); ok {
		return s
	}
	return ""
}

// Confidence returns the confidence computed by stage 6, or 0 if absent
func (r *Report) Confidence() float64 {
	if r == nil {
		return 0
	}
	if c, ok := r.Results["step6"].Data["confidence"].(float64); ok {
		return c
	}
	return 0
}

// Finding is the result of one automated analysis step
type Finding struct {
	Step     int                    `json:"step" yaml:"step"`
	Name     string                 `json:"name" yaml:"name"`
	Findings []string               `json:"findings" yaml:"findings"`
	Score    float64                `json:"score" yaml:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AutoAnalysis is the extended bundle produced by the automated formatter
type AutoAnalysis struct {
	Statement      string   `json:"statement" yaml:"statement"`
	Label          string   `json:"label" yaml:"label"`
	Confidence     float64  `json:"confidence" yaml:"confidence"`
	SourceScore    float64  `json:"source_score" yaml:"source_score"`
	CoherenceScore float64  `json:"coherence_score" yaml:"coherence_score"`
	Sources        []string `json:"sources" yaml:"sources"`

	StatementQuality Finding `json:"statement_quality" yaml:"statement_quality"`
	Assumptions      Finding `json:"assumptions" yaml:"assumptions"`
	SourceQuality    Finding `json:"source_quality" yaml:"source_quality"`
	Coherence        Finding `json:"coherence" yaml:"coherence"`

	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`
}
