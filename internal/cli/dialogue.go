package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sst/internal/logging"
	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/pipeline"
)

var (
	dialogueSources   []string
	dialogueCoherence float64
)

// dialogueCmd represents the dialogue command
var dialogueCmd = &cobra.Command{
	Use:   "dialogue <claim>",
	Short: "Examine a claim through a guided question-and-answer session",
	Long: `Dialogue walks through the stress test one stage at a time. Each stage
prints its questions and waits for an answer on stdin (one line, or a blank
line to skip). After the sixth answer the report is printed as the last
prompt; a final line of reflection on it ends the session.

Example:
  sst dialogue "Dark matter exists." -s "Rotation curve surveys"
  printf 'yes\n\n\n\n\nagree\nfair\n' | sst dialogue "The sky is blue."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDialogue,
}

func init() {
	rootCmd.AddCommand(dialogueCmd)

	dialogueCmd.Flags().StringArrayVarP(&dialogueSources, "source", "s", nil, "source supporting the claim (repeatable)")
	dialogueCmd.Flags().Float64Var(&dialogueCoherence, "coherence", 0, "initial coherence score 0-100 (default from config)")
}

func runDialogue(cmd *cobra.Command, args []string) error {
	coherence, err := scoreFlag(cmd, "coherence", dialogueCoherence, cfg.CoherenceScore)
	if err != nil {
		return err
	}

	p, err := pipeline.New(model.ModeGuided, pipeline.WithLogger(logging.New("dialogue")))
	if err != nil {
		return err
	}

	session, err := p.Dialogue(strings.Join(args, " "), dialogueSources, coherence)
	if err != nil {
		return err
	}

	return converse(session, cmd.InOrStdin(), cmd.OutOrStdout())
}

// converse prints each prompt and feeds one input line back as the answer.
// Input ending early answers the remaining stages with blanks.
func converse(s *pipeline.Session, in io.Reader, out io.Writer) error {
	answers := bufio.NewScanner(in)

	fmt.Fprint(out, s.Prompt())
	for !s.Done() {
		fmt.Fprint(out, "\n> ")

		answer := ""
		if answers.Scan() {
			answer = answers.Text()
		} else {
			fmt.Fprintln(out)
		}

		_, next, err := s.Submit(answer)
		if err != nil {
			return err
		}
		fmt.Fprint(out, next)
	}

	if err := answers.Err(); err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	return nil
}
