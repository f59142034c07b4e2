// Package heuristics flags assumptive and uncertain language in claims and
// scores their internal and contextual coherence.
//
// All checks are lexical. Nothing here understands the claim; the analyzer
// only looks for words that tend to signal overconfidence, hedging or
// contradiction.
package heuristics

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// NeutralCoherence is reported when no assumption has been evaluated
const NeutralCoherence = 0.5

const (
	hedgePenalty         = 0.1
	contradictionPenalty = 0.3
	specificityBonus     = 0.1
	specificityMinLength = 50
	contextPenalty       = 0.2
	declarativeMinLength = 5
)

// Coherence pairs an assumption with its coherence score (0-1)
type Coherence struct {
	Assumption string  `json:"assumption" yaml:"assumption"`
	Score      float64 `json:"score" yaml:"score"`
}

// Analysis is the bundle returned by AnalyzeStatement
type Analysis struct {
	Statement        string      `json:"statement" yaml:"statement"`
	IsAssumption     bool        `json:"is_assumption" yaml:"is_assumption"`
	HasUncertainty   bool        `json:"has_uncertainty" yaml:"has_uncertainty"`
	Assumptions      []string    `json:"assumptions" yaml:"assumptions"`
	Unknowns         []string    `json:"unknowns" yaml:"unknowns"`
	CoherenceScore   float64     `json:"coherence_score" yaml:"coherence_score"`
	CoherenceDetails []Coherence `json:"coherence_details" yaml:"coherence_details"`
	Questions        []string    `json:"proposed_questions" yaml:"proposed_questions"`
}

// Analyzer keeps the findings of its most recent calls.
// Each Extract/Identify/Evaluate call replaces the previous result.
type Analyzer struct {
	assumptions []string
	unknowns    []string
	coherences  []Coherence
	priorities  []string
}

// NewAnalyzer creates an analyzer with no findings
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Reset discards all stored findings
func (a *Analyzer) Reset() {
	a.assumptions = nil
	a.unknowns = nil
	a.coherences = nil
	a.priorities = nil
}

// ExtractAssumptions keeps the statements that contain assumptive language
func (a *Analyzer) ExtractAssumptions(statements []string) []string {
	a.assumptions = filter(statements, IsAssumption)
	return clone(a.assumptions)
}

// IdentifyUnknowns keeps the statements that contain uncertainty
func (a *Analyzer) IdentifyUnknowns(statements []string) []string {
	a.unknowns = filter(statements, IsUnknown)
	return clone(a.unknowns)
}

// Assumptions returns the last extracted assumptions
func (a *Analyzer) Assumptions() []string { return clone(a.assumptions) }

// Unknowns returns the last identified unknowns
func (a *Analyzer) Unknowns() []string { return clone(a.unknowns) }

// EvaluateCoherence scores every stored assumption against the context
func (a *Analyzer) EvaluateCoherence(context []string) []Coherence {
	a.coherences = make([]Coherence, 0, len(a.assumptions))
	for _, assumption := range a.assumptions {
		a.coherences = append(a.coherences, Coherence{
			Assumption: assumption,
			Score:      CalculateCoherence(assumption, context),
		})
	}
	out := make([]Coherence, len(a.coherences))
	copy(out, a.coherences)
	return out
}

// CoherenceScore returns the mean of the last EvaluateCoherence result,
// or NeutralCoherence when nothing was evaluated
func (a *Analyzer) CoherenceScore() float64 {
	return meanScore(a.coherences)
}

// EstablishPriorities orders the stored assumptions by criteria score,
// highest first. Assumptions missing from criteria score 0.
func (a *Analyzer) EstablishPriorities(criteria map[string]float64) []string {
	a.priorities = clone(a.assumptions)
	sort.SliceStable(a.priorities, func(i, j int) bool {
		return criteria[a.priorities[i]] > criteria[a.priorities[j]]
	})
	return clone(a.priorities)
}

// ProposeQuestions generates probing questions for assumptions and unknowns
func (a *Analyzer) ProposeQuestions() []string {
	questions := make([]string, 0, len(a.assumptions)*2+len(a.unknowns))
	for _, assumption := range a.assumptions {
		questions = append(questions,
			"What if "+assumption+"?",
			"How do we know that "+assumption+"?",
		)
	}
	for _, unknown := range a.unknowns {
		questions = append(questions, "What would clarify "+unknown+"?")
	}
	return questions
}

// AnalyzeStatement runs the full analysis using the statement as its own context
func (a *Analyzer) AnalyzeStatement(statement string) Analysis {
	data := []string{statement}

	a.ExtractAssumptions(data)
	a.IdentifyUnknowns(data)
	details := a.EvaluateCoherence(data)

	return Analysis{
		Statement:        statement,
		IsAssumption:     IsAssumption(statement),
		HasUncertainty:   IsUnknown(statement),
		Assumptions:      a.Assumptions(),
		Unknowns:         a.Unknowns(),
		CoherenceScore:   meanScore(details),
		CoherenceDetails: details,
		Questions:        a.ProposeQuestions(),
	}
}

// IsAssumption reports whether item contains assumptive language.
// Declarative sentences without '?' or '!' count as assumptions too.
func IsAssumption(item string) bool {
	if item == "" {
		return false
	}
	if matchAny(assumptionPatterns, strings.ToLower(item)) {
		return true
	}
	return utf8.RuneCountInString(item) > declarativeMinLength && !strings.ContainsAny(item, "?!")
}

// IsUnknown reports whether item contains uncertainty indicators or a question
func IsUnknown(item string) bool {
	if item == "" {
		return false
	}
	if matchAny(uncertaintyPatterns, strings.ToLower(item)) {
		return true
	}
	return strings.Contains(item, "?")
}

// CalculateCoherence scores an assumption between 0 and 1.
//
// Hedging words, self-contradiction and contradiction with the context lower
// the score; long, specific statements raise it. The context penalty is
// applied after every other term and the result is clamped once.
func CalculateCoherence(assumption string, context []string) float64 {
	if assumption == "" {
		return 0
	}

	lower := strings.ToLower(assumption)
	score := 1.0

	score -= float64(countMatches(hedgingPatterns, lower)) * hedgePenalty

	for _, p := range contradictoryPairs {
		if ContainsPair(lower, p) {
			score -= contradictionPenalty
		}
	}

	if utf8.RuneCountInString(assumption) > specificityMinLength {
		score += specificityBonus
	}

	if len(context) > 0 {
		contextText := strings.ToLower(strings.Join(context, " "))
		for _, p := range contradictoryPairs {
			if strings.Contains(lower, p.First) && strings.Contains(contextText, p.Second) {
				score -= contextPenalty
			}
		}
	}

	return clamp(score, 0, 1)
}

func meanScore(results []Coherence) float64 {
	if len(results) == 0 {
		return NeutralCoherence
	}
	var sum float64
	for _, c := range results {
		sum += c.Score
	}
	return sum / float64(len(results))
}

func filter(items []string, keep func(string) bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
