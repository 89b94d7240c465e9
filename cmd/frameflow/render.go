package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel = lipgloss.NewStyle().Foreground(colorGray)
	styleDone  = lipgloss.NewStyle().Foreground(colorGreen)

	// fill shades indexed by alpha.
	fillShades = []lipgloss.Color{"238", "242", "246", "250", "255"}
)

// render draws the scene as one line per bar.
func render(s *scene) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("frameflow demo"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("frames %d  bindings %d  mounting %d",
		s.graph.Frames(), s.graph.ActiveBindings(), s.mount.Pending())))
	b.WriteString("\n\n")

	for _, bar := range s.bars {
		b.WriteString(renderBar(bar))
		b.WriteString("\n")
	}

	return b.String()
}

func renderBar(b *bar) string {
	// Overshooting curves may briefly write values outside [0, 1].
	width := math.Max(0, math.Min(1, b.width))
	cells := int(math.Round(width * barWidth))

	shade := int(math.Round(math.Max(0, math.Min(1, b.alpha)) * float64(len(fillShades)-1)))
	fill := lipgloss.NewStyle().Foreground(fillShades[shade])

	line := fill.Render(strings.Repeat("█", cells)) + styleDim.Render(strings.Repeat("·", barWidth-cells))

	status := fmt.Sprintf("%3.0f%%", width*100)
	if b.done {
		status = styleDone.Render("done")
	}

	return fmt.Sprintf("%s %s  %s", line, status, styleLabel.Render(b.Label()))
}
