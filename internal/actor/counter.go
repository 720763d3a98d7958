package actor

// Counter counts processed requests through a serialized mailbox.
type Counter struct {
	inner *Actor[int64]
}

// NewCounter starts a Counter at zero.
func NewCounter() *Counter {
	return &Counter{inner: Start(int64(0), 64)}
}

// Increment adds one to the count.
func (c *Counter) Increment() {
	c.inner.Tell(func(n *int64) { *n++ })
}

// Count returns the current value, observing every Increment enqueued
// before the call.
func (c *Counter) Count() int64 {
	return Ask(c.inner, func(n *int64) int64 { return *n })
}

// Stop drains pending increments and stops the consumer.
func (c *Counter) Stop() {
	c.inner.Stop()
}
