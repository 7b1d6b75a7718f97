package assembler_test

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// sseStream renders deltas as a relayed chat completion stream ending in
// [DONE].
func sseStream(deltas ...string) string {
	var b strings.Builder
	for _, d := range deltas {
		b.WriteString(deltaLine(d))
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func deltaLine(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"index": 0, "delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(payload) + "\n"
}

// chunkReader returns the stream in fixed-size reads.
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := min(r.size, len(r.data), len(p))
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

var errConnReset = errors.New("connection reset by peer")

// failingReader returns data and then fails.
type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errConnReset
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}
