package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sst/internal/extract"
	"github.com/ppiankov/sst/internal/model"
)

var (
	scanBaseURL string
	scanLimit   int
	scanOutput  string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract claims from an HTML or text file and classify each",
	Long: `Scan splits a document into sentences, keeps the ones that read as claims
and runs each through the stress test:
- HTML files (.html, .htm) are parsed; links inside a paragraph become the
  sources of that paragraph's sentences
- Any other file is read as plain text without sources

Example:
  sst scan article.html --base-url https://example.com/article
  sst scan notes.txt --limit 20 -o markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanBaseURL, "base-url", "", "URL the HTML was saved from, to resolve relative links")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "evaluate at most this many claims (0 = all)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output format: table, markdown, json, yaml (default table)")
	scanCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	file := args[0]

	claims, err := extractClaims(file, scanBaseURL)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No claims found in %s\n", file)
		return nil
	}
	if scanLimit > 0 && len(claims) > scanLimit {
		claims = claims[:scanLimit]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	return evaluateClaims(ctx, cmd, file, claims, scanOutput)
}

// extractClaims picks the HTML or plain-text extractor by file extension
func extractClaims(file, baseURL string) ([]model.Claim, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	extractor := extract.NewClaimExtractor()
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm", ".xhtml":
		claims, err := extractor.Extract(string(data), baseURL)
		if err != nil {
			return nil, fmt.Errorf("extract claims: %w", err)
		}
		return claims, nil
	default:
		return extractor.ExtractText(string(data)), nil
	}
}
