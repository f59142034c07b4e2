// Package prompt renders stage prompts and final reports for each operating
// mode. Formatters only turn computed data into text; the automated
// formatter additionally exposes its own source and statement analyses.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/ppiankov/sst/internal/model"
)

var (
	// ErrUnknownStep is returned for a stage id outside step1..step7
	ErrUnknownStep = fmt.Errorf("%w: unknown step", model.ErrFormat)
	// ErrMissingField is returned when a template needs a field the caller did not supply
	ErrMissingField = fmt.Errorf("%w: missing field", model.ErrFormat)
)

// Steps lists the stage ids every formatter understands, in conceptual order
var Steps = []string{"step1", "step2", "step3", "step4", "step5", "step6", "step7"}

// Fields are the named values substituted into a prompt template
type Fields map[string]interface{}

// ReportInput carries everything a final report may show.
// Assumptions, Questions, Summary and Auto are optional.
type ReportInput struct {
	Statement   string
	Label       string
	Confidence  float64
	Sources     []string
	Assumptions []string
	Questions   []string
	Summary     string
	Auto        *AutoDetails
}

// AutoDetails are the extra report inputs used by the automated formatter
type AutoDetails struct {
	Issues         []string
	Strengths      []string
	Notes          string
	StatementScore float64
	SourceQuality  float64
	CoherenceScore float64
}

// Formatter renders prompts and reports for one operating mode
type Formatter interface {
	Name() string
	Description() string
	Prompt(step string, fields Fields) (string, error)
	Report(in ReportInput) (string, error)
}

// SourceEvaluator scores the quality of a source list (0-100)
type SourceEvaluator interface {
	EvaluateSources(sources []string) model.Finding
}

// AutoAnalyzer is implemented by formatters that can run a self-administered
// analysis of a claim on top of the pipeline's own stages
type AutoAnalyzer interface {
	SourceEvaluator
	FullAnalysis(statement string, sources []string, coherence float64) model.AutoAnalysis
}

// For returns the formatter registered for a mode
func For(mode model.Mode) (Formatter, error) {
	switch mode {
	case model.ModeBasic:
		return NewBasic(), nil
	case model.ModeGuided:
		return NewGuided(), nil
	case model.ModeAutomated:
		return NewAuto(), nil
	}
	return nil, fmt.Errorf("%w %q", model.ErrInvalidMode, string(mode))
}

// stepTemplate is a parsed template and the top-level fields it references
type stepTemplate struct {
	tmpl   *template.Template
	fields []string
}

// templateSet maps step ids to parsed templates
type templateSet map[string]stepTemplate

func mustTemplates(prefix string, sources map[string]string) templateSet {
	set := make(templateSet, len(sources))
	for step, src := range sources {
		tmpl := template.Must(template.New(prefix + "/" + step).
			Option("missingkey=error").
			Funcs(funcs).
			Parse(src))
		set[step] = stepTemplate{tmpl: tmpl, fields: referencedFields(tmpl.Tree.Root)}
	}
	return set
}

var funcs = template.FuncMap{
	"pct":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"bullet": bulletList,
}

func (s templateSet) render(step string, fields Fields) (string, error) {
	st, ok := s[step]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStep, step)
	}
	if missing := missingFields(st.fields, fields); len(missing) > 0 {
		return "", fmt.Errorf("%w for %s: %s", ErrMissingField, step, strings.Join(missing, ", "))
	}

	var buf bytes.Buffer
	if err := st.tmpl.Execute(&buf, map[string]interface{}(fields)); err != nil {
		return "", fmt.Errorf("render %s: %w", step, err)
	}
	return buf.String(), nil
}

// missingFields returns the required names absent from fields, in order
func missingFields(required []string, fields Fields) []string {
	var missing []string
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// referencedFields lists the distinct .field names a template reads from
// its data, in order of first use. Bodies of range and with are skipped
// since dot no longer refers to the fields map there.
func referencedFields(root parse.Node) []string {
	var names []string
	seen := make(map[string]bool)

	var walk func(n parse.Node)
	walk = func(n parse.Node) {
		switch n := n.(type) {
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, c := range n.Nodes {
				walk(c)
			}
		case *parse.ActionNode:
			walk(n.Pipe)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, c := range n.Cmds {
				walk(c)
			}
		case *parse.CommandNode:
			for _, a := range n.Args {
				walk(a)
			}
		case *parse.FieldNode:
			if name := n.Ident[0]; !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		case *parse.ChainNode:
			walk(n.Node)
		case *parse.IfNode:
			walk(n.Pipe)
			walk(n.List)
			walk(n.ElseList)
		case *parse.RangeNode:
			walk(n.Pipe)
		case *parse.WithNode:
			walk(n.Pipe)
		case *parse.TemplateNode:
			walk(n.Pipe)
		}
	}
	walk(root)
	return names
}

// bulletList formats items one per line with prefix, or the fallback when empty
func bulletList(prefix, fallback string, items []string) string {
	if len(items) == 0 {
		return fallback
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = prefix + " " + item
	}
	return strings.Join(lines, "\n")
}

// numbered formats items as a 1-based numbered list
func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}
