package frameclock

// hub fans frames out to a set of channels sharing one clock.
type hub struct {
	channels []*Channel
	now      func() int64
}

// Channel returns a new subscription point on the clock.
func (h *hub) Channel() *Channel {
	c := &Channel{now: h.now}
	h.channels = append(h.channels, c)
	return c
}

// idle reports whether no channel has a subscriber.
func (h *hub) idle() bool {
	for _, c := range h.channels {
		if c.cb != nil {
			return false
		}
	}
	return true
}

// deliver calls every channel subscribed when the frame starts. Channels
// subscribed while the frame is delivered get their first frame on the next one.
func (h *hub) deliver(frameTimeNanos int64) {
	type delivery struct {
		channel *Channel
		cb      func(int64)
	}

	pending := make([]delivery, 0, len(h.channels))
	for _, c := range h.channels {
		if c.cb != nil {
			pending = append(pending, delivery{c, c.cb})
		}
	}

	for _, d := range pending {
		d.channel.frames++
		d.cb(frameTimeNanos)
	}
}

// Channel is a TimingSource fed by a Manual or Ticker clock.
type Channel struct {
	now    func() int64
	cb     func(int64)
	frames int

	subscribes   int
	unsubscribes int
}

func (c *Channel) Subscribe(cb func(frameTimeNanos int64)) {
	c.cb = cb
	c.subscribes++
}

func (c *Channel) Unsubscribe() {
	if c.cb != nil {
		c.unsubscribes++
	}
	c.cb = nil
}

func (c *Channel) Subscribed() bool { return c.cb != nil }

// Frames returns the number of frames delivered to this channel.
func (c *Channel) Frames() int { return c.frames }

// Subscriptions returns how many times the channel was subscribed and unsubscribed.
func (c *Channel) Subscriptions() (subscribes, unsubscribes int) {
	return c.subscribes, c.unsubscribes
}

// Now returns the clock's current time.
func (c *Channel) Now() int64 { return c.now() }
