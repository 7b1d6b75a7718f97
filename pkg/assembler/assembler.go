// Package assembler is the client side of the chat relay. It decodes the
// relayed SSE stream into an assistant turn, reports the growing text while
// it streams, and resolves the event references in the finished turn
// against a locally held event list.
package assembler

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/reference"
	"github.com/planora/planora/pkg/sse"
)

const readBufferSize = 4096

// Turn is a finalized assistant turn.
type Turn struct {
	// Content is the display text with every reference token removed.
	Content string

	// Raw is the accumulated text as streamed.
	Raw string

	// ReferencedIDs are the distinct referenced ids in order of first
	// appearance, including ids with no local match.
	ReferencedIDs []string

	// ReferencedEvents are the local events matching ReferencedIDs.
	ReferencedEvents []catalog.Event
}

// Assembler builds one assistant turn from a relayed stream.
type Assembler struct {
	// Events is the locally held event list references resolve against.
	Events []catalog.Event

	// OnUpdate receives the accumulated raw text after deltas arrive. It is
	// called on a separate goroutine; when it falls behind, intermediate
	// values are skipped. The final value is always delivered before Run
	// returns.
	OnUpdate func(content string)

	state atomic.Int32
}

// State returns the current state of the turn.
func (a *Assembler) State() State {
	return State(a.state.Load())
}

func (a *Assembler) setState(s State) {
	a.state.Store(int32(s))
}

// Run reads the stream until [DONE] or end of input and returns the
// finalized turn. A read error or context cancellation before that moves
// the turn to Failed and returns a *StreamError.
func (a *Assembler) Run(ctx context.Context, r io.Reader) (*Turn, error) {
	a.setState(AwaitingFirstDelta)

	var updates *coalescer
	if a.OnUpdate != nil {
		updates = newCoalescer(a.OnUpdate)
	}
	stopUpdates := func() {
		if updates != nil {
			updates.close()
			updates = nil
		}
	}
	defer stopUpdates()

	dec := sse.NewDecoder()
	var acc strings.Builder

	apply := func(frames []sse.Frame) {
		for _, f := range frames {
			if f.Done || f.Delta == "" {
				continue
			}
			if a.State() == AwaitingFirstDelta {
				a.setState(Streaming)
			}
			acc.WriteString(f.Delta)
			if updates != nil {
				updates.push(acc.String())
			}
		}
	}

	buf := make([]byte, readBufferSize)
	for !dec.Done() {
		if err := ctx.Err(); err != nil {
			a.setState(Failed)
			return nil, &StreamError{Err: err}
		}

		n, err := r.Read(buf)
		if n > 0 {
			apply(dec.Feed(buf[:n]))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.setState(Failed)
			return nil, &StreamError{Err: err}
		}
	}
	apply(dec.Close())
	stopUpdates()

	a.setState(Finalizing)
	raw := acc.String()
	ids := reference.Extract(raw)
	turn := &Turn{
		Content:          reference.Strip(raw),
		Raw:              raw,
		ReferencedIDs:    ids,
		ReferencedEvents: resolve(a.Events, ids),
	}

	a.setState(Done)
	return turn, nil
}

// resolve returns the events matching ids in id order, comparing ids
// case-insensitively. Unknown ids are dropped.
func resolve(events []catalog.Event, ids []string) []catalog.Event {
	if len(ids) == 0 {
		return nil
	}

	byID := make(map[string]catalog.Event, len(events))
	for _, e := range events {
		byID[strings.ToLower(e.ID)] = e
	}

	out := make([]catalog.Event, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		key := strings.ToLower(id)
		if e, ok := byID[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, e)
		}
	}
	return out
}
