package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AnatoleLucet/frameflow"
	"github.com/AnatoleLucet/frameflow/interpolate"
)

// bar is a mounted target: its width and alpha are animated by the graph
// scheduler and its label is mounted one rune per unit of work.
type bar struct {
	name  string
	width float64
	alpha float64

	label   []rune
	mounted int
	done    bool
}

func (b *bar) SetWidth(v float64) { b.width = v }
func (b *bar) Width() float64     { return b.width }
func (b *bar) SetAlpha(v float64) { b.alpha = v }
func (b *bar) Alpha() float64     { return b.alpha }

func (b *bar) HasMoreWork() bool { return b.mounted < len(b.label) }
func (b *bar) DoWork()           { b.mounted++ }

// Label returns the part of the label mounted so far.
func (b *bar) Label() string { return string(b.label[:b.mounted]) }

type curve struct {
	name string
	fn   interpolate.Func
}

var curves = []curve{
	{"linear", interpolate.Linear},
	{"ease-in", interpolate.EaseIn},
	{"ease-out", interpolate.EaseOut},
	{"ease-in-out", interpolate.EaseInOut},
	{"overshoot", interpolate.Clamped(interpolate.Overshoot(1.7))},
}

// scene wires one binding per bar into a graph scheduler, plus a spring bar,
// and registers every bar label with a mount scheduler.
type scene struct {
	bars   []*bar
	graph  *frameflow.Scheduler
	mount  *frameflow.MountScheduler
	logger *log.Logger

	finished int
}

type sceneOptions struct {
	duration time.Duration
	stagger  time.Duration
}

func newScene(graph *frameflow.Scheduler, mount *frameflow.MountScheduler, logger *log.Logger, opts sceneOptions) (*scene, error) {
	s := &scene{graph: graph, mount: mount, logger: logger}

	for i, c := range curves {
		b := &bar{name: c.name, label: []rune(fmt.Sprintf("%-12s %s", c.name, "timing → interpolator → sink"))}
		s.bars = append(s.bars, b)

		binding := graph.CreateBinding()
		timing := frameflow.NewTimingNode(opts.duration + time.Duration(i)*opts.stagger)
		interp := frameflow.NewInterpolatorNode(c.fn)
		width := frameflow.NewPropertySinkNode(frameflow.Group(b), frameflow.Width)
		alpha := frameflow.NewPropertySinkNode(frameflow.Group(b), frameflow.Alpha)

		binding.AddEdge(timing, interp)
		binding.AddEdge(interp, width)
		binding.AddEdge(timing, alpha)

		if err := s.activate(binding, b); err != nil {
			return nil, err
		}
	}

	spring := &bar{name: "spring", label: []rune(fmt.Sprintf("%-12s %s", "spring", "constant → spring → sink"))}
	s.bars = append(s.bars, spring)

	binding := graph.CreateBinding()
	target := frameflow.NewConstantNode(1)
	follow := frameflow.NewSpringNode(frameflow.SpringConfig{Stiffness: 120, Damping: 14})
	width := frameflow.NewPropertySinkNode(frameflow.Group(spring), frameflow.Width)
	alpha := frameflow.NewPropertySinkNode(frameflow.Group(spring), frameflow.Alpha)

	binding.AddEdge(target, follow)
	binding.AddEdge(follow, width)
	binding.AddEdge(target, alpha)

	if err := s.activate(binding, spring); err != nil {
		return nil, err
	}

	for _, b := range s.bars {
		mount.RegisterSource(b)
	}

	return s, nil
}

func (s *scene) activate(binding *frameflow.Binding, b *bar) error {
	binding.SetListener(func() {
		b.done = true
		s.finished++
		s.logger.Debug("animation finished", "bar", b.name, "frames", s.graph.Frames())
	})
	binding.OnError(func(err error) {
		s.logger.Error("animation failed", "bar", b.name, "err", err)
		b.done = true
		s.finished++
	})

	if err := binding.Activate(); err != nil {
		return fmt.Errorf("activate %s: %w", b.name, err)
	}
	return nil
}

// Done reports whether every animation finished and every label is mounted.
func (s *scene) Done() bool {
	return s.finished == len(s.bars) && s.mount.Pending() == 0
}
