package format

import (
	"strings"
	"testing"
)

var summaryRows = []Summary{
	{Claim: "Water boils at 100 degrees Celsius at sea level.", Label: "HYP", Confidence: 75, Sources: 3},
	{Claim: "Dark matter exists.", Label: "UNK", Confidence: 30, Note: "cached"},
	{Claim: "", Note: "empty claim"},
}

func TestSummaryTable_ASCII(t *testing.T) {
	out := SummaryTable(summaryRows, ASCII)

	for _, want := range []string{"Claim", "Confidence", "Water boils", "75.0%", "30.0%", "3 claims", "FACT=0 HYP=1 UNK=1 -=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "CLAIM") {
		t.Errorf("expected headers in their given case:\n%s", out)
	}
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestSummaryTable_Markdown(t *testing.T) {
	out := SummaryTable(summaryRows, Markdown)

	for _, want := range []string{"| #", "Claim", "---", "75.0%", "cached", "empty claim", "3 claims", "FACT=0 HYP=1 UNK=1 -=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSummaryTable_TruncatesLongClaims(t *testing.T) {
	long := strings.Repeat("a", claimWidth+20)
	out := SummaryTable([]Summary{{Claim: long, Label: "UNK"}}, Markdown)

	if strings.Contains(out, long) {
		t.Errorf("expected claim truncated to %d runes:\n%s", claimWidth, out)
	}
	if !strings.Contains(out, strings.Repeat("a", claimWidth-3)+"...") {
		t.Errorf("expected ellipsis after truncation:\n%s", out)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"markdown", Markdown},
		{" MD ", Markdown},
		{"table", ASCII},
		{"", ASCII},
	}
	for _, tc := range tests {
		if got := ParseStyle(tc.in); got != tc.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLabelCounts(t *testing.T) {
	got := LabelCounts(map[string]int{"FACT": 2, "UNK": 1})
	if got != "FACT=2 HYP=0 UNK=1" {
		t.Errorf("LabelCounts = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := percent(62.5); got != "62.5%" {
		t.Errorf("percent(62.5) = %q", got)
	}
}
