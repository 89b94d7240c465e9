// Package interpolate holds easing curves for InterpolatorNode.
// Every curve maps 0 to 0 and 1 to 1.
package interpolate

import "math"

// Func maps animation progress to an eased value.
type Func = func(float64) float64

func Linear(t float64) float64 { return t }

// EaseIn accelerates from zero velocity.
func EaseIn(t float64) float64 { return t * t }

// EaseOut decelerates to zero velocity.
func EaseOut(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseInOut accelerates then decelerates following a cosine.
func EaseInOut(t float64) float64 {
	return (math.Cos((t+1)*math.Pi) / 2) + 0.5
}

// Overshoot goes past 1 before settling back. Higher tension overshoots more;
// a tension of 0 is EaseOut-like.
func Overshoot(tension float64) Func {
	return func(t float64) float64 {
		t -= 1
		return t*t*((tension+1)*t+tension) + 1
	}
}

// Clamped restricts fn's output to [0, 1].
func Clamped(fn Func) Func {
	return func(t float64) float64 {
		return math.Max(0, math.Min(1, fn(t)))
	}
}

// Reverse plays fn backwards.
func Reverse(fn Func) Func {
	return func(t float64) float64 { return fn(1 - t) }
}

// Scale maps fn's [0, 1] output onto [from, to].
func Scale(fn Func, from, to float64) Func {
	return func(t float64) float64 { return from + (to-from)*fn(t) }
}
