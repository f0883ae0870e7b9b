package ui

import (
	"time"

	"github.com/linuxmatters/leveladj/internal/autolevel"
)

// SampleMsg carries one completed search iteration
type SampleMsg struct {
	Event autolevel.Event
}

// SearchDoneMsg indicates the search goroutine has returned
type SearchDoneMsg struct {
	Result autolevel.Result
	Error  error
}

// tickMsg drives the spinner shown before the first sample arrives
type tickMsg time.Time
