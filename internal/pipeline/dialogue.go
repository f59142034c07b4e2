package pipeline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/prompt"
)

var (
	// ErrDialogueUnsupported is returned when a dialogue is started outside guided mode
	ErrDialogueUnsupported = fmt.Errorf("%w: dialogue requires guided mode", model.ErrConfiguration)
	// ErrDialogueComplete is returned when an answer is submitted after the report
	ErrDialogueComplete = fmt.Errorf("%w: dialogue already complete", model.ErrState)
)

// reportStep is the step whose prompt is the generated report
const reportStep = "step7"

// dialogueOrder is the prompt sequence; confidence is discussed before
// classification, and the report itself is the last prompt
var dialogueOrder = []string{"step1", "step2", "step3", "step4", "step6", "step5", "step7"}

// closingMessage is returned by the answer that ends a dialogue
const closingMessage = "Dialogue complete. %d responses recorded."

// Response is one human answer recorded during a dialogue
type Response struct {
	Step   string `json:"step"`
	Answer string `json:"answer"`
}

// Session is a guided dialogue over one claim, seven answers long. Each of
// the first five answers advances the pipeline by one stage and yields the
// next prompt. The sixth generates the report, which becomes the seventh
// prompt; answering it completes the session.
type Session struct {
	p          *Pipeline
	guided     *prompt.Guided
	sources    []string
	coherence  float64
	results    map[string]model.StageResult
	confidence float64

	pos       int
	current   string
	responses []Response
	report    *model.Report
	done      bool
}

// Dialogue starts a guided session. The pipeline is reset and stage 1 runs
// immediately; the first prompt is available from Prompt.
func (p *Pipeline) Dialogue(statement string, sources []string, coherence float64) (*Session, error) {
	guided, ok := p.formatter.(*prompt.Guided)
	if !ok {
		return nil, fmt.Errorf("%w (mode %s)", ErrDialogueUnsupported, p.mode)
	}

	p.reset()
	s := &Session{
		p:         p,
		guided:    guided,
		sources:   append([]string(nil), sources...),
		coherence: coherence,
		results:   make(map[string]model.StageResult),
	}
	s.results["step1"] = p.Formulate(statement)

	if err := s.render(); err != nil {
		return nil, err
	}
	return s, nil
}

// Prompt returns the prompt awaiting an answer, or the report text once done
func (s *Session) Prompt() string { return s.current }

// Step returns the id of the step awaiting an answer; it stays at the
// report step once done
func (s *Session) Step() string { return dialogueOrder[s.pos] }

// Questions returns the question bank for the current step
func (s *Session) Questions() []string {
	return s.guided.Questions(s.Step())
}

// Done reports whether every prompt, the report included, has been answered
func (s *Session) Done() bool { return s.done }

// Responses returns the answers recorded so far
func (s *Session) Responses() []Response {
	return append([]Response(nil), s.responses...)
}

// Report returns the final report, nil until the sixth answer generates it
func (s *Session) Report() *model.Report { return s.report }

// Submit records an answer for the current step and returns the next
// prompt. The sixth answer returns the report text; the seventh ends the
// session and returns a closing message with done set.
func (s *Session) Submit(answer string) (done bool, next string, err error) {
	if s.done {
		return true, "", ErrDialogueComplete
	}

	step := dialogueOrder[s.pos]
	s.responses = append(s.responses, Response{Step: step, Answer: strings.TrimSpace(answer)})

	if s.pos == len(dialogueOrder)-1 {
		s.done = true
		s.current = fmt.Sprintf(closingMessage, len(s.responses))
		s.p.logger.Info("dialogue completed", "label", s.report.Label(), "responses", len(s.responses))
		return true, s.current, nil
	}

	s.pos++
	if dialogueOrder[s.pos] == reportStep {
		s.generate()
		return false, s.current, nil
	}

	s.advance(dialogueOrder[s.pos])
	if err := s.render(); err != nil {
		return false, "", err
	}
	return false, s.current, nil
}

// advance runs the stage whose prompt is shown next
func (s *Session) advance(step string) {
	p := s.p
	switch step {
	case "step2":
		s.results["step2"] = p.ExtractAssumptions()
	case "step3":
		s.results["step3"] = p.IdentifySources(s.sources)
	case "step4":
		s.results["step4"] = p.TestCoherence()
	case "step6":
		s.confidence = p.QuantifyConfidence(s.sources, s.coherence)
		s.results["step6"] = confidenceResult(len(s.sources), s.coherence, s.confidence)
	case "step5":
		s.results["step5"] = p.Classify(s.confidence, len(s.sources) > 0)
	}
}

// generate runs stage 7; the report text is the final prompt
func (s *Session) generate() {
	s.p.summary = fmt.Sprintf("Dialogue completed through Socratic questioning (%d responses recorded).", len(s.responses))
	s.report = s.p.GenerateReport(s.results)
	s.current = s.report.Text
}

func (s *Session) render() error {
	step := dialogueOrder[s.pos]
	text, err := s.guided.Prompt(step, s.fields())
	if err != nil {
		return fmt.Errorf("render %s prompt: %w", step, err)
	}
	s.current = text
	return nil
}

// fields exposes everything computed so far; templates pick what they need
func (s *Session) fields() prompt.Fields {
	sources := "(none)"
	if len(s.sources) > 0 {
		sources = strings.Join(s.sources, ", ")
	}

	f := prompt.Fields{
		"statement":       s.p.claim,
		"sources":         sources,
		"has_sources":     len(s.sources) > 0,
		"confidence":      fmt.Sprintf("%.1f", s.confidence),
		"source_score":    fmt.Sprintf("%.1f", SourceScore(len(s.sources))),
		"coherence_score": fmt.Sprintf("%.1f", s.coherence),
	}
	if r, ok := s.results["step5"]; ok {
		f["label"] = r.Data["label"]
	}
	return f
}
