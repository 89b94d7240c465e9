package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGraphCycle is returned by Activate when a binding's edges do not form a DAG.
	ErrGraphCycle = errors.New("graph contains a cycle")

	// ErrInvalidNodeReference is returned by Activate when an edge or gating node
	// references a node the binding does not own, or an input slot the node does not accept.
	ErrInvalidNodeReference = errors.New("invalid node reference")

	// ErrIncompatibleSink is wrapped by SinkError when a property target cannot
	// accept the value being applied.
	ErrIncompatibleSink = errors.New("incompatible sink target")

	// ErrDoubleFinish marks a binding that would notify its listener twice.
	ErrDoubleFinish = errors.New("binding finished twice")

	// ErrBindingReused is returned by Activate on a binding that was already activated.
	ErrBindingReused = errors.New("binding already activated")

	// ErrWrongGoroutine is raised when a scheduler is called from a goroutine
	// other than the one that created it.
	ErrWrongGoroutine = errors.New("scheduler used from a foreign goroutine")
)

// GraphError wraps a structural failure detected while activating a binding.
type GraphError struct {
	Kind    error
	Binding string
	Msg     string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Binding != "" {
		fmt.Fprintf(&b, " (binding %s)", e.Binding)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidRef(binding string, format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidNodeReference, Binding: binding, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(binding string, path []*Node) error {
	names := make([]string, 0, len(path))
	for _, n := range path {
		names = append(names, n.String())
	}

	msg := "cycle"
	if len(names) > 0 {
		msg = "cycle: " + strings.Join(names, " -> ")
	}
	return &GraphError{Kind: ErrGraphCycle, Binding: binding, Msg: msg}
}

// SinkError reports a property write that the target rejected.
type SinkError struct {
	Property string
	Target   any
	Value    float64
	Cause    error
}

func (e *SinkError) Error() string {
	msg := fmt.Sprintf("%s: cannot apply %s=%g to %T", ErrIncompatibleSink, e.Property, e.Value, e.Target)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SinkError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrIncompatibleSink}
	}
	return []error{ErrIncompatibleSink, e.Cause}
}
