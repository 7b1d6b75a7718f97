package sse_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/sse"
)

func deltaLine(content string) string {
	return `data: {"choices":[{"index":0,"delta":{"content":` + quote(content) + `}}]}` + "\n"
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func deltas(frames []sse.Frame) []string {
	out := []string{}
	for _, f := range frames {
		if !f.Done {
			out = append(out, f.Delta)
		}
	}
	return out
}

var _ = Describe("Decoder", func() {
	var d *sse.Decoder

	BeforeEach(func() {
		d = sse.NewDecoder()
	})

	It("decodes complete data lines", func() {
		frames := d.Feed([]byte(deltaLine("Hello") + deltaLine(", world")))
		Expect(deltas(frames)).To(Equal([]string{"Hello", ", world"}))
	})

	It("holds a partial line until its newline arrives", func() {
		line := deltaLine("Hi")
		Expect(d.Feed([]byte(line[:10]))).To(BeEmpty())
		Expect(d.Feed([]byte(line[10 : len(line)-1]))).To(BeEmpty())
		Expect(deltas(d.Feed([]byte("\n")))).To(Equal([]string{"Hi"}))
	})

	It("produces the same deltas for every chunking of the stream", func() {
		stream := deltaLine("Kochi ") + ": keep-alive\n\n" + deltaLine("ജാസ് നൈറ്റ്") + deltaLine(" 🎷") + "data: [DONE]\n"
		want := deltas(sse.NewDecoder().Feed([]byte(stream)))
		Expect(want).To(Equal([]string{"Kochi ", "ജാസ് നൈറ്റ്", " 🎷"}))

		for size := 1; size <= 7; size++ {
			dec := sse.NewDecoder()
			var got []string
			for i := 0; i < len(stream); i += size {
				end := min(i+size, len(stream))
				got = append(got, deltas(dec.Feed([]byte(stream[i:end])))...)
			}
			Expect(got).To(Equal(want), "chunk size %d", size)
			Expect(dec.Done()).To(BeTrue())
		}
	})

	It("strips carriage returns", func() {
		frames := d.Feed([]byte(strings.TrimSuffix(deltaLine("a"), "\n") + "\r\n"))
		Expect(deltas(frames)).To(Equal([]string{"a"}))
	})

	It("ignores comments, blank lines and non-data fields", func() {
		frames := d.Feed([]byte(": ping\n\n   \nevent: message\nid: 7\nretry: 100\ndata:nospace\n" + deltaLine("x")))
		Expect(deltas(frames)).To(Equal([]string{"x"}))
	})

	It("skips payloads without content", func() {
		frames := d.Feed([]byte(`data: {"choices":[{"index":0,"delta":{"role":"assistant"}}]}` + "\n" + `data: {"choices":[]}` + "\n"))
		Expect(frames).To(BeEmpty())
	})

	It("stops at [DONE] and ignores everything after it", func() {
		frames := d.Feed([]byte(deltaLine("a") + "data: [DONE]\n" + deltaLine("b")))
		Expect(deltas(frames)).To(Equal([]string{"a"}))
		Expect(frames[len(frames)-1].Done).To(BeTrue())
		Expect(d.Done()).To(BeTrue())

		Expect(d.Feed([]byte(deltaLine("c")))).To(BeEmpty())
		Expect(d.Close()).To(BeEmpty())
	})

	It("reassembles a frame split across two lines exactly once", func() {
		first := `data: {"choices":[{"index":0,"delta":` + "\n"
		second := `{"content":"joined"}}]}` + "\n"

		Expect(d.Feed([]byte(first))).To(BeEmpty())
		Expect(deltas(d.Feed([]byte(second + deltaLine("next"))))).To(Equal([]string{"joined", "next"}))
	})

	It("stops consuming the chunk after holding a payload back", func() {
		first := `data: {"choices":[{"index":0,"delta":` + "\n"
		second := `{"content":"joined"}}]}` + "\n"

		frames := d.Feed([]byte(first + second + deltaLine("tail")))
		Expect(deltas(frames)).To(BeEmpty())

		Expect(deltas(d.Close())).To(Equal([]string{"joined", "tail"}))
	})

	It("drops a broken payload when a fresh data line follows", func() {
		frames := d.Feed([]byte("data: {not json\n"))
		Expect(frames).To(BeEmpty())

		Expect(deltas(d.Feed([]byte(deltaLine("ok"))))).To(Equal([]string{"ok"}))
	})

	It("discards a trailing partial line on close", func() {
		d.Feed([]byte(deltaLine("a")))
		d.Feed([]byte(`data: {"choices":[{"delta":{"content":"never"}}]}`))
		Expect(d.Close()).To(BeEmpty())
	})

	It("drops held payloads larger than MaxCarry", func() {
		d.MaxCarry = 8
		Expect(d.Feed([]byte("data: {\"choices\":\n"))).To(BeEmpty())
		Expect(deltas(d.Feed([]byte(deltaLine("after"))))).To(Equal([]string{"after"}))
	})
})
