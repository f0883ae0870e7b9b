// This file provides the console output of a text-mode search.

package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/linuxmatters/leveladj/internal/autolevel"
)

// Console prints one pair of lines per tested level and keeps a trace
// table for the final summary.
type Console struct {
	w      io.Writer
	depth  autolevel.BitDepth
	budget int
	table  *TraceTable
	events []autolevel.Event
}

// NewConsole creates a console observer for a search with the given settings
func NewConsole(w io.Writer, depth autolevel.BitDepth, budget int) *Console {
	return &Console{
		w:      w,
		depth:  depth,
		budget: budget,
		table:  NewTraceTable(),
	}
}

// Observe is an autolevel.Options.OnEvent callback
func (c *Console) Observe(e autolevel.Event) {
	fmt.Fprintf(c.w, "testing level %d\n", e.Level)
	fmt.Fprintf(c.w, "low %d high %d clipped %d nsamp %d\n",
		e.Stats.Low, e.Stats.High, e.Stats.ClipScore, c.budget/c.depth.SampleWidth())

	c.table.AddEvent(e, c.depth)
	c.events = append(c.events, e)
}

// Events returns every event observed so far
func (c *Console) Events() []autolevel.Event {
	return c.events
}

// Summary describes a finished search for the final report
type Summary struct {
	Device  string
	Tenxfsc int
	Region  string // local video region hint, may be empty
	Result  autolevel.Result
	Elapsed time.Duration
}

// sampleRates names the tenxfsc settings
var sampleRates = []string{"native", "native x1.25", "native x1.4"}

// WriteSummary prints the search settings, the trace table and the final level
func (c *Console) WriteSummary(s Summary) {
	w := c.w
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "LEVEL SEARCH: %s\n", s.Device)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Bit depth:    %s\n", c.depth)
	fmt.Fprintf(w, "Sample rate:  %s\n", sampleRateName(s.Tenxfsc))
	fmt.Fprintf(w, "Sample size:  %s per level\n", humanize.IBytes(uint64(c.budget)))
	if s.Region != "" {
		fmt.Fprintf(w, "Region:       %s\n", s.Region)
	}
	fmt.Fprintln(w)

	writeSection(w, "TESTED LEVELS")
	fmt.Fprint(w, c.table.String())
	fmt.Fprintln(w)

	writeSection(w, "RESULT")
	fmt.Fprintf(w, "  Level:      %d\n", s.Result.Level)
	fmt.Fprintf(w, "  State:      %s\n", s.Result.State)
	fmt.Fprintf(w, "  Iterations: %d in %s\n", s.Result.Iterations, s.Elapsed.Round(time.Millisecond))
	if note := resultNote(s.Result); note != "" {
		fmt.Fprintf(w, "  Note:       %s\n", note)
	}

	tips := GenerateCaptureTips(TipInput{Depth: c.depth, Budget: c.budget, Events: c.events, Result: s.Result})
	if len(tips) > 0 {
		fmt.Fprintln(w)
		writeSection(w, "TIPS")
		for _, tip := range tips {
			fmt.Fprintf(w, "  - %s\n", wrapText(tip.Message, 56, "    "))
		}
	}
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func sampleRateName(tenxfsc int) string {
	if tenxfsc >= 0 && tenxfsc < len(sampleRates) {
		return sampleRates[tenxfsc]
	}
	return fmt.Sprintf("tenxfsc=%d", tenxfsc)
}

// resultNote explains levels where the search stopped at a range boundary
func resultNote(r autolevel.Result) string {
	if r.State != autolevel.Converged {
		return "search interrupted, last tested level left applied"
	}
	switch r.Level {
	case autolevel.MaxLevel:
		return "no clipping at maximum gain, signal may be weak"
	case autolevel.MinLevel:
		return "stopped at minimum gain, check input signal"
	}
	return ""
}
