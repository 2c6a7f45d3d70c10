// Package report renders run results for people (a summary table) and for
// tools (a JSON document). Neither output contains matched values.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/redactyl/anonymizer/internal/audit"
	"github.com/redactyl/anonymizer/internal/types"
)

type PrintOptions struct {
	NoColor  bool
	Duration time.Duration
	Input    string
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// IsTerminal reports whether w is a terminal, so callers can default
// NoColor for pipes and files.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func style(s lipgloss.Style, text string, noColor bool) string {
	if noColor {
		return text
	}
	return s.Render(text)
}

// PrintSummary writes a per-type table of what a run replaced.
func PrintSummary(w io.Writer, s types.Summary, opts PrintOptions) error {
	title := "Anonymization summary"
	if opts.Input != "" {
		title += ": " + opts.Input
	}
	fmt.Fprintln(w, style(titleStyle, title, opts.NoColor))

	if s.TotalMatches == 0 {
		fmt.Fprintln(w, "No PII found")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Entity", "Count")
		for _, t := range sortedTypes(s.ByType) {
			if err := table.Append([]string{string(t), fmt.Sprint(s.ByType[t])}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Matches: %d", s.TotalMatches)
	if len(s.ByStrategy) > 0 {
		fmt.Fprint(w, " (")
		for i, name := range sortedStrategies(s.ByStrategy) {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s: %d", name, s.ByStrategy[name])
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Duration: %s\n", opts.Duration.Round(time.Millisecond))
	}
	if s.DetectorVersion != "" {
		fmt.Fprintln(w, style(mutedStyle, "Detectors: "+s.DetectorVersion, opts.NoColor))
	}
	return nil
}

// PrintHistory lists audit records, newest first as LoadHistory returns them.
func PrintHistory(w io.Writer, records []audit.RunRecord, opts PrintOptions) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Time", "Run", "Input", "Matches", "Duration")
	for _, r := range records {
		row := []string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Input,
			fmt.Sprint(r.TotalMatches),
			r.Duration,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// Document is the JSON report. The original text is left out and every
// match value is redacted.
type Document struct {
	AnonymizedText string        `json:"anonymizedText"`
	Matches        []types.Match `json:"matches"`
	Summary        types.Summary `json:"summary"`
	DurationMs     int64         `json:"durationMs"`
}

func NewDocument(res types.Result) Document {
	return Document{
		AnonymizedText: res.AnonymizedText,
		Matches:        audit.RedactValues(res.Matches),
		Summary:        res.Summary,
		DurationMs:     res.DurationMs,
	}
}

func WriteJSON(w io.Writer, res types.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}

func sortedTypes(m map[types.EntityType]int) []types.EntityType {
	out := make([]types.EntityType, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if m[out[i]] != m[out[j]] {
			return m[out[i]] > m[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func sortedStrategies(m map[types.StrategyName]int) []types.StrategyName {
	out := make([]types.StrategyName, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
