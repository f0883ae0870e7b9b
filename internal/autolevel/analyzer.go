package autolevel

import "encoding/binary"

// ClipThreshold is the clip score at or above which a buffer counts as clipped.
// It does not depend on bit depth, while the analyzer's early-exit bound does:
// in ten-bit mode a buffer with only soft overflows stops scanning at a score
// of 10 and is therefore never classified as clipped.
const ClipThreshold = 20

// Stats summarises one scanned buffer
type Stats struct {
	Low       uint16 // lowest sample seen
	High      uint16 // highest sample seen
	ClipScore int    // weighted overflow count
	Scanned   int    // samples examined before the early exit
}

// Clipped reports whether the buffer should be treated as clipping
func (s Stats) Clipped() bool {
	return s.ClipScore >= ClipThreshold
}

// Analyzer scans raw capture buffers for overflow
type Analyzer struct {
	depth       BitDepth
	softLow     uint16
	softHigh    uint16
	hardPenalty int // added for a sample at either representable extreme
	bound       int // scan stops once the clip score reaches this
}

// NewAnalyzer creates an analyzer for buffers of budget bytes at the given depth
func NewAnalyzer(depth BitDepth, budget int) *Analyzer {
	lo, hi := depth.softLimits()

	// Ten-bit buffers hold half as many samples, so the bound is halved too
	bound := budget / 100000
	if depth == TenBit {
		bound = budget / 200000
	}

	return &Analyzer{
		depth:       depth,
		softLow:     lo,
		softHigh:    hi,
		hardPenalty: budget / 50000,
		bound:       bound,
	}
}

// HardPenalty returns the score added for one fully saturated sample
func (a *Analyzer) HardPenalty() int {
	return a.hardPenalty
}

// Bound returns the clip score at which scanning stops
func (a *Analyzer) Bound() int {
	return a.bound
}

// Analyze scans buf once and returns its extrema and clip score.
// Ten-bit buffers are read as little-endian 16-bit words; a trailing odd byte is ignored.
// For an empty buffer Low stays at the maximum sample and High at zero.
func (a *Analyzer) Analyze(buf []byte) Stats {
	full := a.depth.MaxSample()
	s := Stats{Low: full}

	n := len(buf)
	if a.depth == TenBit {
		n = len(buf) / 2
	}

	for i := 0; i < n && s.ClipScore < a.bound; i++ {
		var v uint16
		if a.depth == TenBit {
			v = binary.LittleEndian.Uint16(buf[2*i:])
		} else {
			v = uint16(buf[i])
		}

		if v < s.Low {
			s.Low = v
		}
		if v > s.High {
			s.High = v
		}

		switch {
		case v == 0 || v == full:
			s.ClipScore += a.hardPenalty
		case v < a.softLow || v > a.softHigh:
			s.ClipScore++
		}
		s.Scanned++
	}

	return s
}
