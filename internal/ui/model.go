// Package ui provides the Bubbletea level trace shown in graphical mode
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/leveladj/internal/autolevel"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Plot geometry. The y axis has one row per gain level.
const (
	PlotHeight = autolevel.MaxLevel + 1
	PlotWidth  = 55
	axisWidth  = 3 // "31|"

	// header, top border, plot rows, bottom border, status line
	MinHeight = 1 + 1 + PlotHeight + 1 + 1
	MinWidth  = axisWidth + PlotWidth + 2
)

// ErrDisplayTooSmall is returned when the terminal cannot fit the plot
var ErrDisplayTooSmall = errors.New("terminal too small for graphical mode")

// CheckSize reports whether a terminal of the given size can show the plot
func CheckSize(width, height int) error {
	if width < MinWidth || height < MinHeight {
		return errors.WithMessagef(ErrDisplayTooSmall,
			"please resize your window: you need %d rows x %d cols, you have %d rows x %d cols",
			MinHeight, MinWidth, height, width)
	}
	return nil
}

// CheckTerminal checks the size of the terminal on fd before any sampling starts
func CheckTerminal(fd int) error {
	width, height, err := term.GetSize(fd)
	if err != nil {
		return errors.WithMessagef(ErrDisplayTooSmall, "cannot read terminal size: %v", err)
	}
	return CheckSize(width, height)
}

// Point is one plotted iteration
type Point struct {
	Level   int
	Clipped bool
}

// GraphModel is the Bubbletea model for graphical mode
type GraphModel struct {
	Device string
	Depth  autolevel.BitDepth
	Region string

	// Most recent points, oldest first, at most PlotWidth long
	Trace []Point
	Last  autolevel.Event
	Count int // samples received

	// Set once the search goroutine returns
	Result autolevel.Result
	Error  error
	Done   bool

	StartTime    time.Time
	spinnerIndex int

	// Called when the user quits so the search stops sampling
	cancel func()

	// Terminal dimensions
	Width  int
	Height int
}

// Spinner frames for the wait before the first sample
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewGraphModel creates the graph model. cancel may be nil.
func NewGraphModel(device string, depth autolevel.BitDepth, region string, cancel func()) GraphModel {
	if cancel == nil {
		cancel = func() {}
	}
	return GraphModel{
		Device:    device,
		Depth:     depth,
		Region:    region,
		StartTime: time.Now(),
		cancel:    cancel,
	}
}

// Init initializes the model
func (m GraphModel) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if m.Count == 0 && !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case SampleMsg:
		m.Count++
		m.Last = msg.Event
		m.Trace = appendPoint(m.Trace, Point{Level: msg.Event.Level, Clipped: msg.Event.Clipped()})
		return m, nil

	case SearchDoneMsg:
		m.Result = msg.Result
		m.Error = msg.Error
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// appendPoint adds p and scrolls the oldest point off once the plot is full
func appendPoint(trace []Point, p Point) []Point {
	trace = append(trace, p)
	if len(trace) > PlotWidth {
		trace = append(trace[:0], trace[len(trace)-PlotWidth:]...)
	}
	return trace
}

// View renders the UI
func (m GraphModel) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}
	if err := CheckSize(m.Width, m.Height); err != nil {
		return err.Error()
	}
	return renderGraph(m)
}
