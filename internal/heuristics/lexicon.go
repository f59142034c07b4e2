package heuristics

import (
	"regexp"
	"strings"
)

// Indicators of assumptive language
var assumptionIndicators = []string{
	"is", "are", "was", "were", "will", "must", "should",
	"always", "never", "all", "none", "every", "no one",
	"obviously", "clearly", "certainly", "definitely",
}

// Indicators of uncertainty
var uncertaintyIndicators = []string{
	"might", "may", "could", "perhaps", "possibly", "probably",
	"seems", "appears", "suggests", "indicates", "uncertain",
	"unknown", "unclear", "ambiguous", "questionable",
}

// Hedging words that reduce coherence
var hedgingWords = []string{
	"some", "many", "few", "often", "sometimes", "usually",
	"generally", "typically", "tends to", "in some cases",
}

// Pair is a couple of words that contradict each other
type Pair struct {
	First  string
	Second string
}

var contradictoryPairs = []Pair{
	{"always", "never"},
	{"all", "none"},
	{"increase", "decrease"},
	{"more", "less"},
	{"true", "false"},
	{"yes", "no"},
}

var (
	assumptionPatterns  = compileWords(assumptionIndicators)
	uncertaintyPatterns = compileWords(uncertaintyIndicators)
	hedgingPatterns     = compileWords(hedgingWords)
)

// compileWords builds case-sensitive whole-word patterns; callers lower-case input first
func compileWords(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}

// matchAny reports whether any pattern matches the lower-cased text
func matchAny(patterns []*regexp.Regexp, lower string) bool {
	for _, p := range patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// countMatches counts how many distinct patterns match the lower-cased text
func countMatches(patterns []*regexp.Regexp, lower string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(lower) {
			n++
		}
	}
	return n
}

// AssumptionIndicators returns a copy of the assumptive-language lexicon
func AssumptionIndicators() []string { return clone(assumptionIndicators) }

// UncertaintyIndicators returns a copy of the uncertainty lexicon
func UncertaintyIndicators() []string { return clone(uncertaintyIndicators) }

// HedgingWords returns a copy of the hedging lexicon
func HedgingWords() []string { return clone(hedgingWords) }

// ContradictoryPairs returns a copy of the contradictory pair table
func ContradictoryPairs() []Pair {
	out := make([]Pair, len(contradictoryPairs))
	copy(out, contradictoryPairs)
	return out
}

// ContainsPair reports whether both members of p occur in the lower-cased text
func ContainsPair(lower string, p Pair) bool {
	return strings.Contains(lower, p.First) && strings.Contains(lower, p.Second)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
