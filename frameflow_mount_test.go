package frameflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/frameflow/frameclock"
)

// workSource performs units of work that each take cost on the manual clock.
type workSource struct {
	name  string
	units int
	cost  time.Duration

	clock *frameclock.Manual
	log   *[]string

	onWork func()
}

func (w *workSource) HasMoreWork() bool { return w.units > 0 }

func (w *workSource) DoWork() {
	*w.log = append(*w.log, fmt.Sprintf("%s%d", w.name, w.units))
	w.units--
	w.clock.Advance(w.cost)
	if w.onWork != nil {
		w.onWork()
	}
}

// 4ms of budget per 16ms frame
func mountConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameInterval = Duration{16 * time.Millisecond}
	cfg.SafetyBuffer = Duration{12 * time.Millisecond}
	return cfg
}

func newTestMountScheduler() (*MountScheduler, *frameclock.Manual) {
	clock := frameclock.NewManual()
	m := NewMountScheduler(clock, WithConfig(mountConfig()), WithClock(clock), WithLogger(quietLogger()))
	return m, clock
}

func TestMountScheduler(t *testing.T) {
	t.Run("drains sources in registration order across frames", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		for i := range 10 {
			m.RegisterSource(&workSource{
				name:  fmt.Sprintf("s%d-", i),
				units: 1,
				cost:  time.Millisecond,
				clock: clock,
				log:   &log,
			})
		}
		assert.True(t, clock.Subscribed())
		assert.Equal(t, 10, m.Pending())

		clock.Step(frame)
		assert.Equal(t, []string{"s0-1", "s1-1", "s2-1", "s3-1"}, log)

		clock.Step(frame)
		clock.Step(frame)

		want := []string{}
		for i := range 10 {
			want = append(want, fmt.Sprintf("s%d-1", i))
		}
		if diff := cmp.Diff(want, log); diff != "" {
			t.Errorf("work order mismatch (-want +got):\n%s", diff)
		}

		assert.Equal(t, 0, m.Pending())
		assert.False(t, clock.Subscribed())
	})

	t.Run("deadline follows the timing source's time by default", func(t *testing.T) {
		clock := frameclock.NewManual()
		m := NewMountScheduler(clock.Channel(), WithConfig(mountConfig()), WithLogger(quietLogger()))
		log := []string{}

		for i := range 10 {
			m.RegisterSource(&workSource{
				name:  fmt.Sprintf("s%d-", i),
				units: 1,
				cost:  time.Millisecond,
				clock: clock,
				log:   &log,
			})
		}

		clock.Step(frame)
		assert.Equal(t, []string{"s0-1", "s1-1", "s2-1", "s3-1"}, log)

		clock.Step(frame)
		assert.Len(t, log, 8)
	})

	t.Run("round robin resumes where the deadline stopped it", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		a := &workSource{name: "a", units: 3, cost: time.Millisecond, clock: clock, log: &log}
		b := &workSource{name: "b", units: 3, cost: time.Millisecond, clock: clock, log: &log}
		c := &workSource{name: "c", units: 1, cost: time.Millisecond, clock: clock, log: &log}
		m.RegisterSource(a)
		m.RegisterSource(b)
		m.RegisterSource(c)

		clock.Step(frame)
		assert.Equal(t, []string{"a3", "b3", "c1", "a2"}, log)
		assert.Equal(t, SourceHasWork, m.State(a))

		clock.Step(frame)
		if diff := cmp.Diff([]string{"a3", "b3", "c1", "a2", "b2", "a1", "b1"}, log); diff != "" {
			t.Errorf("work order mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, SourceUnregistered, m.State(c))
		assert.False(t, clock.Subscribed())
	})

	t.Run("stops early once drained", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		m.RegisterSource(&workSource{name: "a", units: 2, cost: time.Millisecond, clock: clock, log: &log})

		start := clock.Now()
		clock.Step(frame)
		assert.Equal(t, []string{"a2", "a1"}, log)
		assert.Equal(t, start+int64(frame)+int64(2*time.Millisecond), clock.Now())
		assert.Equal(t, 1, m.Frames())
		assert.False(t, clock.Subscribed())

		clock.StepN(3, frame)
		assert.Equal(t, 1, m.Frames())
	})

	t.Run("register with a known frame time drains immediately", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		clock.Advance(100 * time.Millisecond)
		frameStart := clock.Now()
		clock.Advance(time.Millisecond)

		src := &workSource{name: "a", units: 5, cost: time.Millisecond, clock: clock, log: &log}
		m.RegisterSourceAt(src, frameStart)

		// 3ms left in the current frame
		assert.Equal(t, []string{"a5", "a4", "a3"}, log)
		assert.True(t, clock.Subscribed())
		assert.Equal(t, SourceHasWork, m.State(src))

		clock.Step(frame)
		assert.Equal(t, []string{"a5", "a4", "a3", "a2", "a1"}, log)
		assert.False(t, clock.Subscribed())
	})

	t.Run("register without frame time waits for the next frame", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		src := &workSource{name: "a", units: 1, cost: time.Millisecond, clock: clock, log: &log}
		m.RegisterSource(src)
		m.RegisterSource(src)

		assert.Empty(t, log)
		assert.Equal(t, 1, m.Pending())
		assert.Equal(t, SourceIdle, m.State(src))

		clock.Step(frame)
		assert.Equal(t, []string{"a1"}, log)
	})

	t.Run("unregister drops remaining work", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		a := &workSource{name: "a", units: 10, cost: time.Millisecond, clock: clock, log: &log}
		b := &workSource{name: "b", units: 10, cost: time.Millisecond, clock: clock, log: &log}
		m.RegisterSource(a)
		m.RegisterSource(b)

		clock.Step(frame)
		m.UnregisterSource(a)
		assert.Equal(t, SourceUnregistered, m.State(a))
		assert.True(t, clock.Subscribed())

		clock.Step(frame)
		assert.Equal(t, []string{"a10", "b10", "a9", "b9", "b8", "b7", "b6", "b5"}, log)

		m.UnregisterSource(b)
		assert.False(t, clock.Subscribed())
	})

	t.Run("unregister while draining", func(t *testing.T) {
		m, clock := newTestMountScheduler()
		log := []string{}

		b := &workSource{name: "b", units: 5, cost: time.Millisecond, clock: clock, log: &log}
		a := &workSource{name: "a", units: 5, cost: time.Millisecond, clock: clock, log: &log}
		a.onWork = func() { m.UnregisterSource(b) }

		m.RegisterSource(a)
		m.RegisterSource(b)

		clock.Step(frame)
		assert.Equal(t, []string{"a5", "a4", "a3", "a2"}, log)
		assert.Equal(t, 1, m.Pending())
	})
}
