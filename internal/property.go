package internal

import "fmt"

// Property writes an animated value onto a mounted target.
type Property interface {
	Name() string
	Apply(target any, value float64) error
	Read(target any) (float64, error)
}

// TargetGroup is the set of mounted objects a sink currently writes to.
type TargetGroup interface {
	Targets() []any
}

type sinkState struct {
	group    TargetGroup
	property Property
}

func (s *sinkState) apply(value float64) error {
	if s.group == nil {
		return nil
	}

	for _, target := range s.group.Targets() {
		if err := s.property.Apply(target, value); err != nil {
			return &SinkError{Property: s.property.Name(), Target: target, Value: value, Cause: err}
		}
	}
	return nil
}

// SetTargetGroup redirects a sink node to a new group and immediately applies
// the node's current value to it.
func (n *Node) SetTargetGroup(group TargetGroup) error {
	if n.sink == nil {
		return fmt.Errorf("%w: %s is not a property sink", ErrInvalidNodeReference, n)
	}

	n.sink.group = group
	if !n.updated {
		return nil
	}
	return n.sink.apply(n.value)
}

func (n *Node) TargetGroup() TargetGroup {
	if n.sink == nil {
		return nil
	}
	return n.sink.group
}

type (
	Scaler   interface{ SetScale(float64) }
	Fader    interface{ SetAlpha(float64) }
	XSetter  interface{ SetX(float64) }
	YSetter  interface{ SetY(float64) }
	Rotator  interface{ SetRotation(float64) }
	Widther  interface{ SetWidth(float64) }
	Heighter interface{ SetHeight(float64) }

	ScaleReader    interface{ Scale() float64 }
	AlphaReader    interface{ Alpha() float64 }
	XReader        interface{ X() float64 }
	YReader        interface{ Y() float64 }
	RotationReader interface{ Rotation() float64 }
	WidthReader    interface{ Width() float64 }
	HeightReader   interface{ Height() float64 }
)

// FuncProperty adapts a pair of closures keyed on target interfaces.
type FuncProperty struct {
	name  string
	apply func(target any, v float64) bool
	read  func(target any) (float64, bool)
}

func NewFuncProperty(name string, apply func(any, float64) bool, read func(any) (float64, bool)) *FuncProperty {
	return &FuncProperty{name: name, apply: apply, read: read}
}

func (p *FuncProperty) Name() string { return p.name }

func (p *FuncProperty) Apply(target any, v float64) error {
	if target == nil || !p.apply(target, v) {
		return fmt.Errorf("target %T has no %s property", target, p.name)
	}
	return nil
}

func (p *FuncProperty) Read(target any) (float64, error) {
	if target != nil && p.read != nil {
		if v, ok := p.read(target); ok {
			return v, nil
		}
	}
	return 0, &SinkError{Property: p.name, Target: target, Cause: fmt.Errorf("%s is not readable", p.name)}
}

func setter[T any](set func(T, float64)) func(any, float64) bool {
	return func(target any, v float64) bool {
		t, ok := target.(T)
		if ok {
			set(t, v)
		}
		return ok
	}
}

func getter[T any](get func(T) float64) func(any) (float64, bool) {
	return func(target any) (float64, bool) {
		t, ok := target.(T)
		if !ok {
			return 0, false
		}
		return get(t), true
	}
}

var (
	PropertyScale = NewFuncProperty("scale",
		setter(func(t Scaler, v float64) { t.SetScale(v) }),
		getter(func(t ScaleReader) float64 { return t.Scale() }))
	PropertyAlpha = NewFuncProperty("alpha",
		setter(func(t Fader, v float64) { t.SetAlpha(v) }),
		getter(func(t AlphaReader) float64 { return t.Alpha() }))
	PropertyX = NewFuncProperty("x",
		setter(func(t XSetter, v float64) { t.SetX(v) }),
		getter(func(t XReader) float64 { return t.X() }))
	PropertyY = NewFuncProperty("y",
		setter(func(t YSetter, v float64) { t.SetY(v) }),
		getter(func(t YReader) float64 { return t.Y() }))
	PropertyRotation = NewFuncProperty("rotation",
		setter(func(t Rotator, v float64) { t.SetRotation(v) }),
		getter(func(t RotationReader) float64 { return t.Rotation() }))
	PropertyWidth = NewFuncProperty("width",
		setter(func(t Widther, v float64) { t.SetWidth(v) }),
		getter(func(t WidthReader) float64 { return t.Width() }))
	PropertyHeight = NewFuncProperty("height",
		setter(func(t Heighter, v float64) { t.SetHeight(v) }),
		getter(func(t HeightReader) float64 { return t.Height() }))
)
