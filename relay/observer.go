package relay

import (
	"github.com/planora/planora/pkg/reference"
	"github.com/planora/planora/pkg/sse"
)

// observer decodes a copy of the forwarded bytes for telemetry. It never
// alters what the client receives, and keeps only counters and the
// referenced ids, never the answer text.
type observer struct {
	dec    *sse.Decoder
	refs   *reference.Tracker
	deltas int
	bytes  int64
}

func newObserver() *observer {
	return &observer{dec: sse.NewDecoder(), refs: reference.NewTracker()}
}

func (o *observer) observe(chunk []byte) {
	o.bytes += int64(len(chunk))
	o.apply(o.dec.Feed(chunk))
}

func (o *observer) finish() {
	o.apply(o.dec.Close())
}

func (o *observer) apply(frames []sse.Frame) {
	for _, f := range frames {
		if f.Done || f.Delta == "" {
			continue
		}
		o.deltas++
		o.refs.Add(f.Delta)
	}
}

// done reports whether the [DONE] sentinel was seen.
func (o *observer) done() bool {
	return o.dec.Done()
}

func (o *observer) referencedIDs() []string {
	return o.refs.IDs()
}

func (o *observer) characters() int {
	return o.refs.Characters()
}
