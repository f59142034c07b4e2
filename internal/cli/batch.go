package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sst/internal/cache"
	"github.com/ppiankov/sst/internal/format"
	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	noCache      bool
	batchOutput  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Evaluate many claims from a YAML file in parallel",
	Long: `Batch evaluates every claim in a YAML file concurrently:
- Each item has a claim, optional sources and optional coherence (0-100)
- Each claim runs on its own pipeline in the selected mode
- Identical claims are evaluated once and served from an in-memory cache
- Results are summarised in a table, or written as JSON/YAML

File format:
  - claim: Water boils at 100 degrees Celsius at sea level.
    sources: [Physics textbook, NIST, Encyclopedia]
    coherence: 100
  - claim: Dark matter exists.

Example:
  sst batch claims.yaml
  sst batch claims.yaml --concurrency 8 --mode automated
  sst batch claims.yaml -o markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory report cache")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output format: table, markdown, json, yaml (default table)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	claims, err := worker.ReadClaimsFromFile(file)
	if err != nil {
		return fmt.Errorf("read claims: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	return evaluateClaims(ctx, cmd, file, claims, batchOutput)
}

// evaluateClaims runs claims through the batch processor and writes the results
func evaluateClaims(ctx context.Context, cmd *cobra.Command, input string, claims []model.Claim, output string) error {
	workers := concurrency
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	opts := []worker.BatchOption{worker.WithCoherence(cfg.CoherenceScore)}
	if !noCache && cfg.Batch.CacheTTL > 0 {
		opts = append(opts, worker.WithCache(cache.NewMemoryCache(cfg.Batch.CacheTTL, 2*cfg.Batch.CacheTTL), 0))
	}

	processor, err := worker.NewBatchProcessor(model.Mode(cfg.Mode), workers, opts...)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "  Input:    %s\n", input)
		fmt.Fprintf(os.Stderr, "  Claims:   %d\n", len(claims))
		fmt.Fprintf(os.Stderr, "  Mode:     %s\n", cfg.Mode)
		fmt.Fprintf(os.Stderr, "  Workers:  %d\n\n", workers)
	}

	results := processor.ProcessClaims(ctx, claims)

	failed := 0
	rows := make([]format.Summary, len(results))
	reports := make([]*model.Report, 0, len(results))
	for i, res := range results {
		row := format.Summary{Claim: res.Claim.Text, Sources: len(res.Claim.Sources)}
		switch {
		case res.Error != nil:
			failed++
			row.Note = res.Error.Error()
		default:
			row.Label = res.Report.Label()
			row.Confidence = res.Report.Confidence()
			if res.Cached {
				row.Note = "cached"
			}
			reports = append(reports, res.Report)
		}
		rows[i] = row
	}

	out := cmd.OutOrStdout()
	switch f := batchFormat(output); f {
	case formatTable, formatMarkdown:
		fmt.Fprintln(out, format.SummaryTable(rows, format.ParseStyle(f)))
	default:
		if err := writeResult(out, f, "", reports); err != nil {
			return err
		}
	}

	if missing := len(claims) - len(results); missing > 0 {
		return fmt.Errorf("%d of %d claims not evaluated: %w", missing, len(claims), ctx.Err())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d claims failed", failed, len(claims))
	}
	return nil
}

// batchFormat defaults to a table; text output means table for multi-claim commands
func batchFormat(flag string) string {
	f := outputFormat(flag)
	if f == formatText || f == "" {
		return formatTable
	}
	return f
}
