package prompt

import "fmt"

// Question banks for the guided dialogue. Step 5 and 7 have none.
var guidedQuestions = map[string][]string{
	"step1": {
		"What exactly do you mean by this claim?",
		"Can you express this in different words?",
		"What would it look like if this claim were true?",
		"What would it look like if this claim were false?",
		"Is there any ambiguity in your formulation?",
	},
	"step2": {
		"What must you already believe for this to be true?",
		"What hidden premises support this claim?",
		"What concepts are you taking for granted?",
		"Could someone disagree with your foundational assumptions?",
		"Are there cultural or contextual assumptions embedded here?",
	},
	"step3": {
		"How do you know this to be true?",
		"What evidence would change your mind?",
		"Who else has verified this claim?",
		"Could your sources be mistaken?",
		"Is there a primary source for this knowledge?",
	},
	"step4": {
		"Does this claim contradict anything you already know?",
		"What would be the consequences if this were true?",
		"Can you think of a counterexample?",
		"Does this align with related established facts?",
		"Is there a simpler explanation?",
	},
	"step6": {
		"On a scale of 0-100, how certain are you?",
		"What would increase your certainty?",
		"What doubts remain?",
		"Is absolute certainty possible here?",
	},
}

var guidedTemplates = mustTemplates("guided", map[string]string{
	"step1": `
STEP 1: STATEMENT CLARIFICATION

You have stated: "{{.statement}}"

Let us examine this claim together. Please reflect on the following:

{{.questions}}

Take your time to consider each question before proceeding.
`,
	"step2": `
STEP 2: ASSUMPTION EXCAVATION

Regarding your claim: "{{.statement}}"

Every belief rests on hidden foundations. Let us uncover them:

{{.questions}}
`,
	"step3": `
STEP 3: SOURCE EXAMINATION

For the claim: "{{.statement}}"

Current sources: {{.sources}}

Knowledge must be traced to its origins:

{{.questions}}
`,
	"step4": `
STEP 4: COHERENCE EXAMINATION

Testing the claim: "{{.statement}}"

Truth must be consistent with itself and with reality:

{{.questions}}
`,
	"step5": `
STEP 5: CLASSIFICATION DELIBERATION

After our examination of: "{{.statement}}"

Based on our dialogue:
- Confidence level: {{.confidence}}%
- Sources verified: {{.has_sources}}

The claim appears to be: {{.label}}

Do you agree with this classification?
What would need to change for a different classification?
`,
	"step6": `
STEP 6: CONFIDENCE REFLECTION

For the claim: "{{.statement}}"

Let us quantify our certainty:
- Source contribution: {{.source_score}}/50 points
- Coherence assessment: {{.coherence_score}}/100 points
- Combined confidence: {{.confidence}}%

{{.questions}}
`,
	"step7": `
===============================================================
          SOCRATIC STRESS TEST REPORT (GUIDED MODE)
===============================================================

CLAIM EXAMINED:
   "{{.statement}}"

CLASSIFICATION: {{.label}}
CONFIDENCE: {{.confidence}}%

SOURCES CONSULTED ({{.source_count}}):
{{.sources_list}}

KEY ASSUMPTIONS IDENTIFIED:
{{.assumptions_list}}

QUESTIONS RAISED:
{{.questions_list}}

DIALOGUE SUMMARY:
{{.summary}}
===============================================================
`,
})

// Guided drives a maieutic dialogue: the system asks, the human answers
type Guided struct{}

// NewGuided creates the guided-mode formatter
func NewGuided() *Guided {
	return &Guided{}
}

func (g *Guided) Name() string { return "guided" }

func (g *Guided) Description() string {
	return "Maieutic questioning with human guidance"
}

// Questions returns the question bank for a step, nil for steps without one
func (g *Guided) Questions(step string) []string {
	bank := guidedQuestions[step]
	if bank == nil {
		return nil
	}
	out := make([]string, len(bank))
	copy(out, bank)
	return out
}

// Prompt renders the template for step. The step's question bank is
// injected as "questions" unless the caller supplies its own.
func (g *Guided) Prompt(step string, fields Fields) (string, error) {
	if bank, ok := guidedQuestions[step]; ok {
		if _, given := fields["questions"]; !given {
			merged := make(Fields, len(fields)+1)
			for k, v := range fields {
				merged[k] = v
			}
			merged["questions"] = numbered(bank)
			fields = merged
		}
	}
	return guidedTemplates.render(step, fields)
}

// Report renders the final dialogue report
func (g *Guided) Report(in ReportInput) (string, error) {
	summary := in.Summary
	if summary == "" {
		summary = "Dialogue completed through Socratic questioning."
	}

	return g.Prompt("step7", Fields{
		"statement":        in.Statement,
		"label":            in.Label,
		"confidence":       fmt.Sprintf("%.1f", in.Confidence),
		"source_count":     len(in.Sources),
		"sources_list":     bulletList("   *", "   (No sources provided - a significant concern)", in.Sources),
		"assumptions_list": bulletList("   ->", "   (No explicit assumptions identified)", in.Assumptions),
		"questions_list":   bulletList("   ?", "   (No unresolved questions)", in.Questions),
		"summary":          summary,
	})
}
