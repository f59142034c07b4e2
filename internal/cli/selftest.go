package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sst/internal/classify"
)

var (
	selftestSources    []string
	selftestConfidence float64
	selftestOutput     string
)

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest <claim>",
	Short: "Classify a claim with heuristic self-test downgrades",
	Long: `Selftest scales an initial confidence by the claim's heuristic coherence,
classifies it, then applies up to three downgrades:
- uncertain language
- FACT without sources
- coherence below 0.5

Example:
  sst selftest "Prices always rise and never fall." --confidence 90 -s "Market report"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)

	selftestCmd.Flags().StringArrayVarP(&selftestSources, "source", "s", nil, "source supporting the claim (repeatable)")
	selftestCmd.Flags().Float64Var(&selftestConfidence, "confidence", 0, "initial confidence 0-100 (default from config)")
	selftestCmd.Flags().StringVarP(&selftestOutput, "output", "o", "", "output format: text, json, yaml (default from config)")
}

func runSelftest(cmd *cobra.Command, args []string) error {
	confidence, err := scoreFlag(cmd, "confidence", selftestConfidence, cfg.InitialConfidence)
	if err != nil {
		return err
	}

	m := classify.NewMachine()
	eval := m.EvaluateWithSelfTest(strings.Join(args, " "), selftestSources, confidence)

	return writeResult(cmd.OutOrStdout(), outputFormat(selftestOutput), selftestText(eval), eval)
}

func selftestText(e classify.Evaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Statement:  %s\n", e.Statement)
	fmt.Fprintf(&b, "Confidence: %.1f initial, %.1f adjusted (coherence %.2f)\n",
		e.InitialConfidence, e.AdjustedConfidence, e.CoherenceFactor)
	fmt.Fprintf(&b, "Result:     %s - %s\n", e.FinalState, e.FinalState.Description())

	if len(e.History) > 0 {
		b.WriteString("History:\n")
		for _, t := range e.History {
			from := string(t.From)
			if from == "" {
				from = "(none)"
			}
			fmt.Fprintf(&b, "  %s -> %s: %s\n", from, t.To, t.Reason)
		}
	}
	if len(e.DowngradeReasons) > 0 {
		b.WriteString("Downgrades:\n")
		for _, r := range e.DowngradeReasons {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	return b.String()
}
