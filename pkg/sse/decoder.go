package sse

import (
	"bytes"
	"strings"

	"github.com/planora/planora/pkg/llm"
)

// DefaultMaxCarry bounds the size of a frame held back for reassembly.
const DefaultMaxCarry = 1 << 20

// Decoder incrementally decodes an SSE chat completion stream.
//
// Bytes are buffered until a newline arrives, so a multi-byte character
// split across chunks is never decoded early, and only complete lines are
// processed. A trailing "\r" is stripped from each line.
//
// A data payload that fails to parse as JSON is held back and joined with
// the next line by "\n" before parsing again, which reassembles a frame
// whose payload was split across two lines. When that happens the rest of
// the current chunk is left buffered until more input arrives or Close.
//
// After [DONE] all further input is ignored.
type Decoder struct {
	buf      []byte
	carry    string
	hasCarry bool
	done     bool

	// MaxCarry is the largest held-back payload; larger ones are dropped.
	MaxCarry int
}

func NewDecoder() *Decoder {
	return &Decoder{MaxCarry: DefaultMaxCarry}
}

// Done reports whether the terminal [DONE] frame was seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed appends chunk and returns the frames completed by it. Frames
// carrying an empty delta are not returned.
func (d *Decoder) Feed(chunk []byte) []Frame {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)
	return d.drain(true)
}

// Close processes complete lines still buffered after a reassembly stop
// and discards any trailing partial line.
func (d *Decoder) Close() []Frame {
	if d.done {
		return nil
	}
	frames := d.drain(false)
	d.buf = nil
	d.carry, d.hasCarry = "", false
	return frames
}

// drain processes complete lines. When stopOnCarry is set, it returns as
// soon as a payload is held back for reassembly.
func (d *Decoder) drain(stopOnCarry bool) []Frame {
	var frames []Frame

	for !d.done {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(d.buf[:idx])
		d.buf = d.buf[idx+1:]
		line = strings.TrimSuffix(line, "\r")

		frame, ok, held := d.line(line)
		if ok && (frame.Done || frame.Delta != "") {
			frames = append(frames, frame)
		}
		if held && stopOnCarry {
			break
		}
	}

	if len(d.buf) == 0 {
		d.buf = nil
	}
	return frames
}

// line handles one complete line. ok reports a parsed frame; held reports
// that the payload was kept back for reassembly.
func (d *Decoder) line(line string) (frame Frame, ok bool, held bool) {
	if d.hasCarry {
		joined := d.carry + "\n" + line
		d.carry, d.hasCarry = "", false
		if delta, err := llm.ParseDelta([]byte(joined)); err == nil {
			return Frame{Delta: delta}, true, false
		}
		// A fresh data line means the held payload was not a split frame.
		if strings.HasPrefix(line, dataPrefix) {
			return d.line(line)
		}
		return Frame{}, false, d.hold(joined)
	}

	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return Frame{}, false, false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return Frame{}, false, false
	}

	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == donePayload {
		d.done = true
		return Frame{Done: true}, true, false
	}

	delta, err := llm.ParseDelta([]byte(payload))
	if err != nil {
		return Frame{}, false, d.hold(payload)
	}
	return Frame{Delta: delta}, true, false
}

// hold keeps payload back for reassembly unless it exceeds MaxCarry.
func (d *Decoder) hold(payload string) bool {
	if d.MaxCarry > 0 && len(payload) > d.MaxCarry {
		return false
	}
	d.carry, d.hasCarry = payload, true
	return true
}
