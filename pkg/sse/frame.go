// Package sse provides a minimal, purpose-built incremental decoder for the
// chat completion SSE (Server-Sent Events) stream relayed by planora. It
// turns raw byte chunks, split at arbitrary boundaries, into content deltas.
//
// Only "data: " lines carry frames. Blank lines, ":" comments and any other
// field lines are ignored. The literal payload [DONE] ends the turn.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Frame is one decoded data frame.
type Frame struct {
	// Delta is the content delta carried by the frame. Empty for the
	// terminal frame and for payloads without content.
	Delta string

	// Done marks the terminal [DONE] frame.
	Done bool
}

const (
	dataPrefix  = "data: "
	donePayload = "[DONE]"
)
