package internal

import (
	"math"
	"time"
)

// SpringConfig describes a damped spring. Zero fields take the defaults.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64

	// position on the first frame
	Start float64

	RestSpeed        float64
	RestDisplacement float64
}

func (c SpringConfig) withDefaults() SpringConfig {
	if c.Stiffness <= 0 {
		c.Stiffness = 170
	}
	if c.Damping <= 0 {
		c.Damping = 26
	}
	if c.Mass <= 0 {
		c.Mass = 1
	}
	if c.RestSpeed <= 0 {
		c.RestSpeed = 0.001
	}
	if c.RestDisplacement <= 0 {
		c.RestDisplacement = 0.001
	}
	return c
}

// integration step, large frame deltas are split into steps of this size
const springStep = time.Millisecond

type springState struct {
	config SpringConfig

	started  bool
	position float64
	velocity float64
	atRest   bool
}

func (s *springState) step(dt time.Duration, target float64) float64 {
	if !s.started {
		s.started = true
		s.position = s.config.Start
		s.velocity = 0
	}

	for dt > 0 {
		h := min(dt, springStep)
		dt -= h

		secs := h.Seconds()
		force := -s.config.Stiffness*(s.position-target) - s.config.Damping*s.velocity
		s.velocity += force / s.config.Mass * secs
		s.position += s.velocity * secs
	}

	s.atRest = math.Abs(s.velocity) < s.config.RestSpeed &&
		math.Abs(s.position-target) < s.config.RestDisplacement
	if s.atRest {
		s.position = target
		s.velocity = 0
	}

	return s.position
}
