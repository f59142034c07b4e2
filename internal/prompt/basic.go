package prompt

import "fmt"

var basicTemplates = mustTemplates("basic", map[string]string{
	"step1": `
Please clearly state the claim you want to evaluate.

Claim: {{.statement}}

Is this claim:
1. Clearly formulated? (Yes/No)
2. Specific enough to verify? (Yes/No)
3. Contains measurable/testable assertions? (Yes/No)
`,
	"step2": `
For the claim: "{{.statement}}"

List the implicit assumptions:
1. What must be true for this claim to hold?
2. What background knowledge is assumed?
3. What definitions are taken for granted?
`,
	"step3": `
For the claim: "{{.statement}}"

Provide sources that support or refute this claim:
- Academic papers
- Official reports
- Verified databases
- Expert testimony

Current sources provided: {{.sources}}
`,
	"step4": `
For the claim: "{{.statement}}"

Check for logical consistency:
1. Does the claim contradict itself?
2. Does it conflict with well-established facts?
3. Are there internal logical flaws?
`,
	"step5": `
Based on the analysis of: "{{.statement}}"

Classify as:
- FACT: High confidence (>=85%) with verified sources
- HYP: Medium confidence (50-84%) or unverified
- UNK: Low confidence (<50%) or insufficient evidence

Current confidence: {{.confidence}}%
Has verified sources: {{.has_sources}}
`,
	"step6": `
Quantify confidence for: "{{.statement}}"

Factors:
- Source quality score: {{.source_score}}/50
- Coherence score: {{.coherence_score}}/100
- Combined confidence: {{.confidence}}%
`,
	"step7": `
=== SOCRATIC STRESS TEST REPORT (BASIC MODE) ===

Claim: {{.statement}}
Classification: {{.label}}
Confidence: {{.confidence}}%

Sources ({{.source_count}}):
{{.sources_list}}

Summary:
{{.summary}}
`,
})

// Basic asks direct questions and produces a short plain report
type Basic struct{}

// NewBasic creates the basic-mode formatter
func NewBasic() *Basic {
	return &Basic{}
}

func (b *Basic) Name() string { return "basic" }

func (b *Basic) Description() string {
	return "Direct questioning for straightforward claim evaluation"
}

// Prompt renders the template for step
func (b *Basic) Prompt(step string, fields Fields) (string, error) {
	return basicTemplates.render(step, fields)
}

// Report renders the final basic report
func (b *Basic) Report(in ReportInput) (string, error) {
	summary := in.Summary
	if summary == "" {
		summary = fmt.Sprintf("Claim classified as %s with %.1f%% confidence.", in.Label, in.Confidence)
	}

	return b.Prompt("step7", Fields{
		"statement":    in.Statement,
		"label":        in.Label,
		"confidence":   fmt.Sprintf("%.1f", in.Confidence),
		"source_count": len(in.Sources),
		"sources_list": bulletList("  -", "  (No sources provided)", in.Sources),
		"summary":      summary,
	})
}
