package autolevel

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Device parameter names understood by the cxadc driver
const (
	ParamLevel   = "level"
	ParamTenBit  = "tenbit"
	ParamTenxfsc = "tenxfsc"
)

// Event describes one completed iteration: the level that was tested,
// what the buffer looked like and what the controller decided.
type Event struct {
	Iteration int
	Level     int
	Stats     Stats
	State     State // controller state after the step
	Action    Action
}

// Clipped reports whether the tested level clipped
func (e Event) Clipped() bool {
	return e.Stats.Clipped()
}

// Result is the outcome of a search
type Result struct {
	Level      int   // final level, left applied on the device
	State      State // Converged unless the search was interrupted
	Iterations int
}

// Options control how a search is observed
type Options struct {
	// Monitor keeps sampling at the final level after convergence until ctx is done
	Monitor bool

	// Pace is a delay between iterations for human-readable display.
	// It throttles output only.
	Pace time.Duration

	// OnEvent is called synchronously after every iteration
	OnEvent func(Event)

	Logger *slog.Logger
}

// Configure writes the capture mode parameters that must be in place before sampling
func Configure(w ParameterWriter, depth BitDepth, tenxfsc int) error {
	tenbit := 0
	if depth == TenBit {
		tenbit = 1
	}
	if err := writeParam(w, ParamTenBit, tenbit); err != nil {
		return err
	}
	return writeParam(w, ParamTenxfsc, tenxfsc)
}

// ApplyLevel sets an explicit level without sampling
func ApplyLevel(w ParameterWriter, level int) error {
	if err := CheckLevel(level); err != nil {
		return err
	}
	return writeParam(w, ParamLevel, level)
}

func writeParam(w ParameterWriter, name string, value int) error {
	if err := w.WriteParam(name, value); err != nil {
		if errors.Is(err, ErrParameterWriteFailed) {
			return err
		}
		return errors.WithMessagef(ErrParameterWriteFailed, "%s=%d: %v", name, value, err)
	}
	return nil
}

// Run performs the level search.
// Each iteration writes the level under test, acquires a fresh buffer, analyzes
// it and steps the controller. Any device error aborts the search immediately.
func Run(ctx context.Context, cfg Config, w ParameterWriter, src SampleSource, opts Options) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctrl, err := NewController(cfg.Start)
	if err != nil {
		return Result{}, err
	}
	acq := NewAcquirer(src, cfg.Budget)
	analyzer := NewAnalyzer(cfg.Depth, cfg.Budget)

	logger.Info("starting level search",
		"depth", cfg.Depth.String(),
		"budget", cfg.Budget,
		"start", cfg.Start,
		"bound", analyzer.Bound(),
		"hard_penalty", analyzer.HardPenalty())

	res := Result{Level: ctrl.Level(), State: ctrl.State()}
	written := -1

	for {
		if err := ctx.Err(); err != nil {
			if written >= 0 {
				res.Level = written
			}
			if opts.Monitor && res.State == Converged {
				return res, nil
			}
			return res, err
		}

		level := ctrl.Level()
		if level != written {
			if err := writeParam(w, ParamLevel, level); err != nil {
				return res, err
			}
			written = level
		}

		buf, err := acq.Acquire()
		if err != nil {
			return res, err
		}
		stats := analyzer.Analyze(buf)

		before := ctrl.State()
		action := ctrl.Step(stats)
		res.Iterations++
		res.Level = ctrl.Level()
		res.State = ctrl.State()

		logger.Debug("tested level",
			"iteration", res.Iterations,
			"level", level,
			"low", stats.Low,
			"high", stats.High,
			"clip", stats.ClipScore,
			"scanned", stats.Scanned,
			"state", res.State.String())
		if before != res.State {
			logger.Info("search state changed", "from", before.String(), "to", res.State.String(), "level", level)
		}

		if opts.OnEvent != nil {
			opts.OnEvent(Event{
				Iteration: res.Iterations,
				Level:     level,
				Stats:     stats,
				State:     res.State,
				Action:    action,
			})
		}

		if action.Kind == Stop && !opts.Monitor {
			logger.Info("level search converged", "level", res.Level, "iterations", res.Iterations)
			return res, nil
		}

		if opts.Pace > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.Pace):
			}
		}
	}
}
