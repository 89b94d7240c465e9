package internal

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduler() *Scheduler {
	return NewScheduler(nil, log.New(io.Discard))
}

func TestValidate(t *testing.T) {
	t.Run("assigns heights and terminals", func(t *testing.T) {
		s := newScheduler()

		timing := NewTimingNode(time.Second)
		interp := NewInterpolatorNode(func(v float64) float64 { return v })
		out := NewOutputOnlyNode()
		side := NewOutputOnlyNode()

		b := s.NewBinding()
		b.AddEdge(interp, out)
		b.AddEdge(timing, interp)
		b.AddEdge(timing, side)

		v, err := b.validate()
		require.NoError(t, err)
		assert.Equal(t, map[*Node]int{timing: 0, interp: 1, out: 2, side: 1}, v.heights)
		assert.Equal(t, []*Node{out, side}, v.terminals)
	})

	t.Run("cycle witness is deterministic", func(t *testing.T) {
		s := newScheduler()

		a, b1, c := NewSimpleNode(), NewSimpleNode(), NewSimpleNode()

		b := s.NewBinding()
		b.AddEdge(a, b1)
		b.AddEdge(b1, c)
		b.AddEdge(c, a)

		for range 3 {
			_, err := b.validate()

			var graphErr *GraphError
			require.True(t, errors.As(err, &graphErr))
			assert.Equal(t, ErrGraphCycle, graphErr.Kind)
			assert.Equal(t, "cycle: "+a.String()+" -> "+b1.String()+" -> "+c.String()+" -> "+a.String(), graphErr.Msg)
		}
	})
}

func TestGraph(t *testing.T) {
	t.Run("reuses freed slots", func(t *testing.T) {
		s := newScheduler()

		first := s.NewBinding()
		first.AddEdge(NewSettableNode(0), NewOutputOnlyNode())
		require.NoError(t, s.Activate(first))
		assert.Equal(t, 2, s.graph.Len())

		s.Cancel(first)
		assert.Equal(t, 0, s.graph.Len())
		assert.False(t, s.graph.HasReferences())

		settable, out := NewSettableNode(3), NewOutputOnlyNode()
		second := s.NewBinding()
		second.AddEdge(settable, out)
		require.NoError(t, s.Activate(second))

		assert.Len(t, s.graph.nodes, 2)
		assert.Equal(t, settable, s.graph.Input(out, DefaultInput))
		assert.True(t, s.graph.HasOutputs(settable))
		assert.False(t, s.graph.HasOutputs(out))

		require.NoError(t, s.DoFrame(0))
		assert.Equal(t, 3.0, out.Value())
	})
}

func TestFrameClock(t *testing.T) {
	f := NewFrameClock()

	var deltas []time.Duration
	record := func(dt time.Duration) { deltas = append(deltas, dt) }

	f.Run(100, record)
	f.Run(150, record)
	f.Run(120, record)
	f.Run(200, record)
	f.Reset()
	f.Run(1000, record)

	assert.Equal(t, []time.Duration{0, 50, 0, 50, 0}, deltas)
	assert.Equal(t, 5, f.Time())

	nested := f.Run(1100, func(time.Duration) {
		assert.False(t, f.Run(1200, record))
	})
	assert.True(t, nested)
}

func TestPropagateClearsHeapFlags(t *testing.T) {
	s := newScheduler()

	settable := NewSettableNode(1)
	out := NewOutputOnlyNode()
	b := s.NewBinding()
	b.AddEdge(settable, out)
	require.NoError(t, s.Activate(b))

	require.NoError(t, s.DoFrame(0))
	for n := range s.graph.Nodes() {
		assert.Equal(t, FlagNone, n.flags, n.String())
	}
	assert.Zero(t, s.heap.Len())
	assert.Equal(t, 1.0, out.Value())
}
