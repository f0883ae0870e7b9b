package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linuxmatters/leveladj/internal/autolevel"
)

// CaptureTip is a single piece of advice derived from a finished search
type CaptureTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "clipping_at_minimum")
}

// MaxCaptureTips is the maximum number of tips to return.
const MaxCaptureTips = 3

// TipInput is everything the tip rules look at
type TipInput struct {
	Depth  autolevel.BitDepth
	Budget int
	Events []autolevel.Event
	Result autolevel.Result
}

// final returns the last event tested at the result level, if any
func (in TipInput) final() (autolevel.Event, bool) {
	for i := len(in.Events) - 1; i >= 0; i-- {
		if in.Events[i].Level == in.Result.Level {
			return in.Events[i], true
		}
	}
	return autolevel.Event{}, false
}

// span returns the fraction of full scale covered by the final buffer
func (in TipInput) span() float64 {
	e, ok := in.final()
	if !ok || e.Stats.Scanned == 0 {
		return 0
	}
	return float64(e.Stats.High-e.Stats.Low) / float64(in.Depth.MaxSample())
}

// GenerateCaptureTips returns prioritised advice about the capture setup
func GenerateCaptureTips(in TipInput) []CaptureTip {
	if len(in.Events) == 0 {
		return nil
	}

	var tips []CaptureTip
	fired := make(map[string]bool)

	rules := []func(TipInput) *CaptureTip{
		tipClippingAtMinimum,
		tipInterrupted,
		tipWeakAtMaximum,
		tipNarrowRange,
		tipNearClipping,
		tipTenBitSoftOverflow,
	}

	for _, rule := range rules {
		if tip := rule(in); tip != nil {
			tips = append(tips, *tip)
			fired[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, fired)

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxCaptureTips {
		tips = tips[:MaxCaptureTips]
	}
	return tips
}

// applyExclusions drops tips already implied by a more specific one
func applyExclusions(tips []CaptureTip, fired map[string]bool) []CaptureTip {
	var result []CaptureTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "narrow_range":
			if fired["weak_at_maximum"] {
				continue
			}
		case "near_clipping", "tenbit_soft_overflow":
			if fired["clipping_at_minimum"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	var lines []string
	line := ""

	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= maxWidth:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"+indent)
}

// tipClippingAtMinimum fires when the lowest gain level still clips
func tipClippingAtMinimum(in TipInput) *CaptureTip {
	e, ok := in.final()
	if !ok || in.Result.Level != autolevel.MinLevel || !e.Clipped() {
		return nil
	}
	return &CaptureTip{
		Priority: 10,
		RuleID:   "clipping_at_minimum",
		Message:  "The input clips even at level 0. Add an attenuator or lower the source output level.",
	}
}

// tipInterrupted fires when the search did not finish
func tipInterrupted(in TipInput) *CaptureTip {
	if in.Result.State == autolevel.Converged {
		return nil
	}
	return &CaptureTip{
		Priority: 9,
		RuleID:   "interrupted",
		Message:  fmt.Sprintf("The search was interrupted; level %d is applied but may clip. Run again to completion.", in.Result.Level),
	}
}

// tipWeakAtMaximum fires when maximum gain still leaves most of the range unused
func tipWeakAtMaximum(in TipInput) *CaptureTip {
	if in.Result.State != autolevel.Converged || in.Result.Level != autolevel.MaxLevel {
		return nil
	}
	span := in.span()
	if span >= 0.5 {
		return nil
	}
	return &CaptureTip{
		Priority: 8,
		RuleID:   "weak_at_maximum",
		Message:  fmt.Sprintf("At maximum gain the signal only spans %.0f%% of the digitizer range. Check cabling and termination.", span*100),
	}
}

// tipNarrowRange fires when the chosen level uses less than a quarter of the range
func tipNarrowRange(in TipInput) *CaptureTip {
	if in.Result.State != autolevel.Converged {
		return nil
	}
	span := in.span()
	if span == 0 || span >= 0.25 {
		return nil
	}
	return &CaptureTip{
		Priority: 6,
		RuleID:   "narrow_range",
		Message:  fmt.Sprintf("The signal spans only %.0f%% of the range at level %d, so the capture will be noisy.", span*100, in.Result.Level),
	}
}

// tipNearClipping fires when the chosen level shows overflow below the clipping threshold
func tipNearClipping(in TipInput) *CaptureTip {
	e, ok := in.final()
	if !ok || e.Clipped() || e.Stats.ClipScore == 0 {
		return nil
	}
	if in.Result.Level == autolevel.MinLevel {
		return nil
	}
	return &CaptureTip{
		Priority: 5,
		RuleID:   "near_clipping",
		Message:  fmt.Sprintf("Level %d still touches the guard margins. Use level %d if you need extra headroom.", in.Result.Level, in.Result.Level-1),
	}
}

// tipTenBitSoftOverflow fires when a ten-bit scan stopped early on soft
// overflow alone, which is never classified as clipping.
func tipTenBitSoftOverflow(in TipInput) *CaptureTip {
	if in.Depth != autolevel.TenBit {
		return nil
	}
	bound := autolevel.NewAnalyzer(in.Depth, in.Budget).Bound()
	for _, e := range in.Events {
		if !e.Clipped() && e.Stats.ClipScore >= bound && bound > 0 {
			return &CaptureTip{
				Priority: 4,
				RuleID:   "tenbit_soft_overflow",
				Message:  "In 10-bit mode near-clipping samples alone do not lower the level. Compare with an 8-bit run if the picture looks crushed.",
			}
		}
	}
	return nil
}
