package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/leveladj/internal/autolevel"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	cleanPointStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	clippedPointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Bold(true)
	currentPointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	axisStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// renderGraph renders header, plot and status line
func renderGraph(m GraphModel) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n")
	b.WriteString(renderPlot(m.Trace))
	b.WriteString(renderStatus(m))

	return b.String()
}

// renderHeader renders the title line
func renderHeader(m GraphModel) string {
	title := titleStyle.Render("leveladj")
	info := fmt.Sprintf("%s %s", m.Device, m.Depth)
	if m.Region != "" {
		info += " " + m.Region
	}
	return title + " " + mutedStyle.Render(info)
}

// renderPlot draws a three-sided box with the level axis from 31 down to 0
// and one column per point, newest on the right.
func renderPlot(trace []Point) string {
	var b strings.Builder
	border := axisStyle.Render(strings.Repeat("-", axisWidth+PlotWidth+1))

	b.WriteString(border)
	b.WriteString("\n")

	for level := autolevel.MaxLevel; level >= autolevel.MinLevel; level-- {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%2d|", level)))
		b.WriteString(renderRow(trace, level))
		b.WriteString("\n")
	}

	b.WriteString(border)
	b.WriteString("\n")
	return b.String()
}

// renderRow renders the cells of one level row
func renderRow(trace []Point, level int) string {
	var b strings.Builder
	for i := 0; i < PlotWidth; i++ {
		if i >= len(trace) || trace[i].Level != level {
			b.WriteByte(' ')
			continue
		}
		style := cleanPointStyle
		switch {
		case i == len(trace)-1:
			style = currentPointStyle
		case trace[i].Clipped:
			style = clippedPointStyle
		}
		b.WriteString(style.Render("*"))
	}
	return b.String()
}

// renderStatus renders the line under the plot
func renderStatus(m GraphModel) string {
	if m.Count == 0 {
		elapsed := time.Since(m.StartTime).Round(time.Second)
		return fmt.Sprintf("%s waiting for samples... [%s]", spinnerFrames[m.spinnerIndex], elapsed)
	}

	e := m.Last
	status := fmt.Sprintf("level %2d | low %d high %d | clip %d | %s",
		e.Level, e.Stats.Low, e.Stats.High, e.Stats.ClipScore, e.State)
	if e.Clipped() {
		return clippedPointStyle.Render(status)
	}
	return status
}
