package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sst/internal/logging"
	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/pipeline"
)

var (
	evalSources   []string
	evalCoherence float64
	evalOutput    string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <claim>",
	Short: "Run the seven-stage stress test on one claim",
	Long: `Evaluate runs a claim through every stage of the Socratic Stress Test:
- Formulate the statement
- Extract assumptions and uncertain language
- Identify sources
- Test coherence
- Quantify confidence and classify as FACT, HYP or UNK
- Render the report for the selected mode

Example:
  sst evaluate "Water boils at 100 degrees Celsius at sea level." -s "Physics textbook" -s NIST -s Encyclopedia --coherence 100
  sst evaluate "Dark matter exists." --mode automated
  sst evaluate "The sky is blue." -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringArrayVarP(&evalSources, "source", "s", nil, "source supporting the claim (repeatable)")
	evaluateCmd.Flags().Float64Var(&evalCoherence, "coherence", 0, "initial coherence score 0-100 (default from config)")
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "", "output format: text, json, yaml (default from config)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	claim := strings.Join(args, " ")

	coherence, err := scoreFlag(cmd, "coherence", evalCoherence, cfg.CoherenceScore)
	if err != nil {
		return err
	}

	p, err := pipeline.New(model.Mode(cfg.Mode), pipeline.WithLogger(logging.New("pipeline")))
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Mode:      %s\n", cfg.Mode)
		fmt.Fprintf(os.Stderr, "Sources:   %d\n", len(evalSources))
		fmt.Fprintf(os.Stderr, "Coherence: %.1f\n\n", coherence)
	}

	report := p.Run(claim, evalSources, coherence)

	text := report.Text
	if text == "" {
		text = fmt.Sprintf("%s (%.1f%%)", report.Label(), report.Confidence())
	}
	return writeResult(cmd.OutOrStdout(), outputFormat(evalOutput), text, report)
}
