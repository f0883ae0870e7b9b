// This file contains the aligned text table used to summarise the levels
// a search tested.

package logging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/linuxmatters/leveladj/internal/autolevel"
)

// MissingValue is the placeholder for unavailable values
const MissingValue = "-"

// TraceRow is one line of a TraceTable.
// Values are pre-formatted so columns can mix hex and decimal.
type TraceRow struct {
	Label  string   // e.g. "Level 24"
	Values []string // one value per header
	Note   string   // optional, only shown if any row has one
}

// TraceTable formats aligned columns of per-iteration results
type TraceTable struct {
	Headers []string
	Rows    []TraceRow
}

// NewTraceTable creates a table with the standard buffer statistics columns
func NewTraceTable() *TraceTable {
	return &TraceTable{
		Headers: []string{"Low", "High", "Clip", "Scanned"},
	}
}

// AddRow appends a pre-formatted row
func (t *TraceTable) AddRow(label string, values []string, note string) {
	t.Rows = append(t.Rows, TraceRow{Label: label, Values: values, Note: note})
}

// AddEvent appends the result of one search iteration
func (t *TraceTable) AddEvent(e autolevel.Event, depth autolevel.BitDepth) {
	note := ""
	switch {
	case e.Clipped():
		note = "clipped"
	case e.Stats.ClipScore > 0:
		note = "soft overflow"
	}
	if e.Action.Kind == autolevel.Stop && e.State == autolevel.Converged {
		if note != "" {
			note += ", "
		}
		note += "final"
	}

	t.AddRow(fmt.Sprintf("Level %d", e.Level), []string{
		formatSample(e.Stats.Low, depth),
		formatSample(e.Stats.High, depth),
		strconv.Itoa(e.Stats.ClipScore),
		humanize.Comma(int64(e.Stats.Scanned)),
	}, note)
}

// String renders the table. Labels are left-aligned, values right-aligned,
// missing values shown as MissingValue.
func (t *TraceTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	hasNote := false
	for _, row := range t.Rows {
		labelWidth = max(labelWidth, len(row.Label))
		if row.Note != "" {
			hasNote = true
		}
	}

	widths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		widths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(widths) {
				widths[i] = max(widths[i], len(val))
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		fmt.Fprintf(&sb, "%*s  ", widths[i], header)
	}
	if hasNote {
		sb.WriteString("Note")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		fmt.Fprintf(&sb, "%-*s  ", labelWidth, row.Label)
		for i := range t.Headers {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			fmt.Fprintf(&sb, "%*s  ", widths[i], val)
		}
		if hasNote {
			sb.WriteString(row.Note)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatSample renders a raw sample as zero-padded hex of the depth's word width
func formatSample(v uint16, depth autolevel.BitDepth) string {
	return fmt.Sprintf("0x%0*x", 2*depth.SampleWidth(), v)
}
