package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const claimWidth = 60

// Summary is one row of an evaluation summary table
type Summary struct {
	Claim      string
	Label      string // FACT, HYP, UNK or "" on error
	Confidence float64
	Sources    int
	Note       string // Error text or cache marker
}

// SummaryTable renders evaluation rows with a footer counting each label
func SummaryTable(rows []Summary, s Style) string {
	w := newWriter()
	w.AppendHeader(table.Row{"#", "Claim", "Label", "Confidence", "Sources", "Note"})

	counts := make(map[string]int)
	for i, r := range rows {
		label := r.Label
		confidence := percent(r.Confidence)
		if label == "" {
			label = "-"
			confidence = "-"
		}
		counts[label]++
		w.AppendRow(table.Row{i + 1, truncate(r.Claim, claimWidth), label, confidence, r.Sources, r.Note})
	}

	w.AppendFooter(table.Row{"", fmt.Sprintf("%d claims", len(rows)), LabelCounts(counts), "", "", ""})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return render(w, s)
}

// LabelCounts formats label tallies as "FACT=1 HYP=2 UNK=0", failures last as "-=n"
func LabelCounts(counts map[string]int) string {
	parts := []string{
		fmt.Sprintf("FACT=%d", counts["FACT"]),
		fmt.Sprintf("HYP=%d", counts["HYP"]),
		fmt.Sprintf("UNK=%d", counts["UNK"]),
	}

	var other []string
	for label, n := range counts {
		switch label {
		case "FACT", "HYP", "UNK":
		default:
			other = append(other, fmt.Sprintf("%s=%d", label, n))
		}
	}
	sort.Strings(other)

	return strings.Join(append(parts, other...), " ")
}
