package tally

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/manabcodes/bangladesh-election-poll/internal/catalog"
	"github.com/manabcodes/bangladesh-election-poll/internal/model"
)

const (
	// BarWidth is the default number of cells in a result bar.
	BarWidth = 20

	// NoVotesText is shown for a constituency without any votes yet.
	NoVotesText = "এখনো কোনো ভোট পড়েনি"
	// TotalLabel prefixes the constituency vote total.
	TotalLabel = "মোট ভোট"

	barFull  = "█"
	barEmpty = "░"
)

// Bar renders a percentage as a fixed-width horizontal bar.
func Bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// FormatPercentage formats a percentage with one decimal place.
func FormatPercentage(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// ResultLines renders one constituency's results as aligned text lines.
func ResultLines(t model.Tally, con model.Constituency, candidates []string) []string {
	lines := []string{fmt.Sprintf("%s (%s)", con.Name, con.NameEn)}
	total := TotalVotes(t, con.ID)
	if total == 0 {
		return append(lines, NoVotesText)
	}
	rows := Rows(t, con.ID, candidates)
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Candidate,
			Bar(r.Percentage, BarWidth),
			FormatPercentage(r.Percentage),
			fmt.Sprintf("(%d)", r.Count),
		})
	}
	lines = append(lines, alignRows(tableRows, 2, 3)...)
	return append(lines, fmt.Sprintf("%s: %d", TotalLabel, total))
}

// RenderResults prints results for the given constituencies, or all of them when ids is empty.
func RenderResults(w io.Writer, c *catalog.Catalog, t model.Tally, ids []string) error {
	if len(ids) == 0 {
		ids = c.IDs()
	}
	for i, id := range ids {
		con, ok := c.Constituency(id)
		if !ok {
			return fmt.Errorf("unknown constituency %q", id)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
		for _, line := range ResultLines(t, con, c.CandidatesFor(id)) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
