package frameflow

import "github.com/AnatoleLucet/frameflow/internal"

// Property writes an animated value onto a mounted target.
type Property = internal.Property

// TargetGroup is the set of mounted objects a PropertySinkNode writes to.
type TargetGroup = internal.TargetGroup

// Targets is a TargetGroup over a fixed list of objects.
type Targets []any

func (t Targets) Targets() []any { return t }

// Group returns a TargetGroup over the given targets.
func Group(targets ...any) TargetGroup { return Targets(targets) }

// Built-in properties. Each one writes through a single-method interface on
// the target (SetScale, SetAlpha, ...); targets without it make the sink fail
// with a *SinkError.
var (
	Scale    Property = internal.PropertyScale
	Alpha    Property = internal.PropertyAlpha
	X        Property = internal.PropertyX
	Y        Property = internal.PropertyY
	Rotation Property = internal.PropertyRotation
	Width    Property = internal.PropertyWidth
	Height   Property = internal.PropertyHeight
)

// NewProperty builds a property from a setter and an optional getter that
// report false when the target does not support them.
func NewProperty(name string, set func(target any, v float64) bool, get func(target any) (float64, bool)) Property {
	return internal.NewFuncProperty(name, set, get)
}
