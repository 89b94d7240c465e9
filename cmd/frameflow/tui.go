package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AnatoleLucet/frameflow/frameclock"
)

type frameMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// wallClock reports the time elapsed since start, the time base shared by
// the manual clock and the mount scheduler's deadline checks.
type wallClock struct {
	start time.Time
}

func (c wallClock) Now() int64 { return int64(time.Since(c.start)) }

// demoModel drives the scene from bubbletea's event loop. Each tick moves the
// manual clock to the wall time and delivers one frame to both schedulers.
type demoModel struct {
	scene    *scene
	clock    *frameclock.Manual
	wall     wallClock
	interval time.Duration
	quitting bool
}

func (m demoModel) Init() tea.Cmd {
	return tick(m.interval)
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case frameMsg:
		m.clock.Advance(time.Duration(m.wall.Now() - m.clock.Now()))
		m.clock.Frame()
		if m.scene.Done() {
			return m, tea.Quit
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m demoModel) View() string {
	view := render(m.scene)
	if !m.scene.Done() && !m.quitting {
		view += "\n" + styleDim.Render("q quit")
	}
	return view + "\n"
}
