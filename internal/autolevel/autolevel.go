// Package autolevel searches for the highest cxadc gain level that does not clip.
package autolevel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Gain level range accepted by the cxadc driver
const (
	MinLevel     = 0
	MaxLevel     = 31
	DefaultLevel = 20
)

// DefaultSampleBudget is the number of raw bytes read per iteration (2 MiB)
const DefaultSampleBudget = 2048 * 1024

// MinSampleBudget keeps the ten-bit early-exit bound at one or more,
// otherwise the analyzer would never scan a sample.
const MinSampleBudget = 200000

// Error kinds surfaced by the search. All of them are fatal to the run.
var (
	ErrDeviceUnavailable    = errors.New("sample device unavailable")
	ErrParameterWriteFailed = errors.New("parameter write failed")
	ErrLevelOutOfRange      = errors.New("level out of range")
)

// BitDepth selects the sample word width of the capture
type BitDepth int

const (
	EightBit BitDepth = iota
	TenBit
)

// String returns a human readable name for the depth
func (d BitDepth) String() string {
	switch d {
	case EightBit:
		return "8-bit"
	case TenBit:
		return "10-bit"
	default:
		return fmt.Sprintf("BitDepth(%d)", int(d))
	}
}

// SampleWidth returns the number of bytes per sample word
func (d BitDepth) SampleWidth() int {
	if d == TenBit {
		return 2
	}
	return 1
}

// MaxSample returns the largest representable sample value.
// Ten-bit captures are delivered left-justified in 16-bit words.
func (d BitDepth) MaxSample() uint16 {
	if d == TenBit {
		return 0xffff
	}
	return 0xff
}

// softLimits returns the guard margins below and above which a sample counts
// as a soft overflow (roughly 1/32 and 31/32 of full scale).
func (d BitDepth) softLimits() (low, high uint16) {
	if d == TenBit {
		return 0x0800, 0xf800
	}
	return 0x08, 0xf8
}

// Config holds the fixed parameters of one search run
type Config struct {
	Depth  BitDepth
	Budget int // raw bytes read per iteration
	Start  int // initial gain level
}

// DefaultConfig returns an 8-bit search over 2 MiB buffers starting at level 20
func DefaultConfig() Config {
	return Config{
		Depth:  EightBit,
		Budget: DefaultSampleBudget,
		Start:  DefaultLevel,
	}
}

// Validate checks the configuration before any device access
func (c Config) Validate() error {
	if c.Depth != EightBit && c.Depth != TenBit {
		return errors.Errorf("unknown bit depth %d", int(c.Depth))
	}
	if c.Budget < MinSampleBudget {
		return errors.Errorf("sample budget %d below minimum %d", c.Budget, MinSampleBudget)
	}
	if c.Budget%c.Depth.SampleWidth() != 0 {
		return errors.Errorf("sample budget %d is not a whole number of %s samples", c.Budget, c.Depth)
	}
	return CheckLevel(c.Start)
}

// CheckLevel reports whether level lies in the driver's accepted range
func CheckLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return errors.WithMessagef(ErrLevelOutOfRange, "level %d not in [%d, %d]", level, MinLevel, MaxLevel)
	}
	return nil
}
