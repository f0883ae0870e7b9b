package autolevel

import "fmt"

// State is the phase of the level search
type State int

const (
	Climbing State = iota
	BackingOff
	Converged
)

// String returns the display name of the state
func (s State) String() string {
	switch s {
	case Climbing:
		return "climbing"
	case BackingOff:
		return "backing off"
	case Converged:
		return "converged"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ActionKind distinguishes the two controller decisions
type ActionKind int

const (
	SetLevel ActionKind = iota
	Stop
)

// Action is the controller's decision after one buffer
type Action struct {
	Kind  ActionKind
	Level int // next level to try, only meaningful for SetLevel
}

// String formats the action for logs
func (a Action) String() string {
	if a.Kind == Stop {
		return "stop"
	}
	return fmt.Sprintf("set level %d", a.Level)
}

// Controller climbs the level one step at a time until clipping appears,
// then backs off one step at a time until it disappears, and freezes there.
type Controller struct {
	level int
	state State
}

// NewController starts a search at the given level
func NewController(initial int) (*Controller, error) {
	if err := CheckLevel(initial); err != nil {
		return nil, err
	}
	return &Controller{level: initial, state: Climbing}, nil
}

// Level returns the level currently under test, or the final level once converged
func (c *Controller) Level() int {
	return c.level
}

// State returns the current search phase
func (c *Controller) State() State {
	return c.state
}

// Step consumes the stats of the buffer captured at Level and decides what to do next
func (c *Controller) Step(s Stats) Action {
	if c.state == Converged {
		return Action{Kind: Stop}
	}

	clipped := s.Clipped()
	next, delta := c.state, 0

	switch c.state {
	case Climbing:
		if clipped {
			next, delta = BackingOff, -1
		} else {
			delta = 1
		}
	case BackingOff:
		if clipped {
			delta = -1
		} else {
			next = Converged
		}
	}

	// Running off either end of the range ends the search where it is
	target := c.level + delta
	if target < MinLevel || target > MaxLevel {
		next, delta = Converged, 0
	}

	c.state = next
	if c.state == Converged {
		return Action{Kind: Stop}
	}

	c.level += delta
	return Action{Kind: SetLevel, Level: c.level}
}
