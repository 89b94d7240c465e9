package frameflow

import "github.com/AnatoleLucet/frameflow/internal"

var (
	ErrGraphCycle           = internal.ErrGraphCycle
	ErrInvalidNodeReference = internal.ErrInvalidNodeReference
	ErrIncompatibleSink     = internal.ErrIncompatibleSink
	ErrDoubleFinish         = internal.ErrDoubleFinish
	ErrBindingReused        = internal.ErrBindingReused
	ErrWrongGoroutine       = internal.ErrWrongGoroutine
)

// GraphError is returned by Binding.Activate for structural problems.
type GraphError = internal.GraphError

// SinkError reports a value a PropertySinkNode could not write.
type SinkError = internal.SinkError
