package assembler

import "sync"

// coalescer delivers values to fn on its own goroutine. When values arrive
// faster than fn returns, intermediate values are skipped and only the
// latest is delivered.
type coalescer struct {
	fn func(string)

	mu        sync.Mutex
	latest    string
	version   uint64
	delivered uint64

	signal chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

func newCoalescer(fn func(string)) *coalescer {
	c := &coalescer{
		fn:     fn,
		signal: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.loop()
	return c
}

// push records v as the latest value. It never blocks.
func (c *coalescer) push(v string) {
	c.mu.Lock()
	c.latest = v
	c.version++
	c.mu.Unlock()

	select {
	case c.signal <- struct{}{}:
	default:
	}
}

// close delivers the latest value if it has not been delivered yet and
// waits for the delivery goroutine to exit.
func (c *coalescer) close() {
	close(c.stop)
	<-c.done
}

func (c *coalescer) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.signal:
			c.deliver()
		case <-c.stop:
			c.deliver()
			return
		}
	}
}

func (c *coalescer) deliver() {
	c.mu.Lock()
	if c.version == c.delivered {
		c.mu.Unlock()
		return
	}
	v := c.latest
	c.delivered = c.version
	c.mu.Unlock()

	c.fn(v)
}
