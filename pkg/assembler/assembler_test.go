package assembler_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/assembler"
	"github.com/planora/planora/pkg/catalog"
)

var _ = Describe("Assembler", func() {
	var (
		events []catalog.Event
		jazzID string
		fest   string
	)

	BeforeEach(func() {
		jazzID = catalog.DemoID("event:kochi-jazz-night")
		fest = catalog.DemoID("event:kochi-devfest")
		events = []catalog.Event{
			{ID: jazzID, Title: "Kochi Jazz Night", Date: "2026-10-22", Time: "19:30:00"},
			{ID: fest, Title: "Kochi DevFest", Date: "2026-10-24", Time: "09:00:00"},
		}
	})

	It("assembles the Kochi Jazz Night answer and resolves its reference", func() {
		stream := sseStream(
			"Check out ",
			"**Kochi Jazz Night** on Oct 22",
			" [EVENT_ID:"+jazzID+"]",
		)
		a := &assembler.Assembler{Events: events}

		turn, err := a.Run(context.Background(), strings.NewReader(stream))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.State()).To(Equal(assembler.Done))
		Expect(turn.Content).To(Equal("Check out **Kochi Jazz Night** on Oct 22 "))
		Expect(turn.ReferencedIDs).To(Equal([]string{jazzID}))
		Expect(turn.ReferencedEvents).To(HaveLen(1))
		Expect(turn.ReferencedEvents[0].Title).To(Equal("Kochi Jazz Night"))
	})

	It("produces the same turn for every chunking of the stream", func() {
		stream := sseStream(
			"Two picks: ",
			"[EVENT_ID:"+fest+"] and ",
			"ജാസ് 🎷 [EVENT_ID:"+jazzID+"]",
		)
		want, err := (&assembler.Assembler{Events: events}).Run(context.Background(), strings.NewReader(stream))
		Expect(err).NotTo(HaveOccurred())

		for _, size := range []int{1, 2, 3, 7, 64} {
			a := &assembler.Assembler{Events: events}
			got, err := a.Run(context.Background(), &chunkReader{data: []byte(stream), size: size})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want), "chunk size %d", size)
		}
		Expect(want.ReferencedIDs).To(Equal([]string{fest, jazzID}))
	})

	It("resolves references case-insensitively and drops unknown ids", func() {
		stream := sseStream("See [EVENT_ID:" + strings.ToUpper(jazzID) + "] and [EVENT_ID:deadbeef-0000]")
		turn, err := (&assembler.Assembler{Events: events}).Run(context.Background(), strings.NewReader(stream))
		Expect(err).NotTo(HaveOccurred())
		Expect(turn.ReferencedIDs).To(HaveLen(2))
		Expect(turn.ReferencedEvents).To(HaveLen(1))
		Expect(turn.ReferencedEvents[0].ID).To(Equal(jazzID))
		Expect(turn.Content).To(Equal("See  and "))
	})

	It("finalizes at end of input without [DONE]", func() {
		turn, err := (&assembler.Assembler{}).Run(context.Background(), strings.NewReader(deltaLine("partial")))
		Expect(err).NotTo(HaveOccurred())
		Expect(turn.Content).To(Equal("partial"))
	})

	It("ignores everything after [DONE]", func() {
		stream := sseStream("kept") + deltaLine("dropped")
		turn, err := (&assembler.Assembler{}).Run(context.Background(), strings.NewReader(stream))
		Expect(err).NotTo(HaveOccurred())
		Expect(turn.Content).To(Equal("kept"))
	})

	It("fails the turn on a read error", func() {
		a := &assembler.Assembler{}
		_, err := a.Run(context.Background(), &failingReader{data: []byte(deltaLine("Hel"))})

		var streamErr *assembler.StreamError
		Expect(errors.As(err, &streamErr)).To(BeTrue())
		Expect(errors.Is(err, errConnReset)).To(BeTrue())
		Expect(a.State()).To(Equal(assembler.Failed))
	})

	It("fails the turn when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		a := &assembler.Assembler{}
		_, err := a.Run(ctx, strings.NewReader(sseStream("never")))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(a.State()).To(Equal(assembler.Failed))
	})

	It("delivers the final accumulated text to OnUpdate", func() {
		var (
			mu      sync.Mutex
			updates []string
		)
		a := &assembler.Assembler{
			OnUpdate: func(s string) {
				time.Sleep(time.Millisecond)
				mu.Lock()
				updates = append(updates, s)
				mu.Unlock()
			},
		}

		_, err := a.Run(context.Background(), &chunkReader{data: []byte(sseStream("a", "b", "c", "d")), size: 5})
		Expect(err).NotTo(HaveOccurred())

		mu.Lock()
		defer mu.Unlock()
		Expect(updates).NotTo(BeEmpty())
		Expect(updates[len(updates)-1]).To(Equal("abcd"))
		for _, u := range updates {
			Expect("abcd").To(HavePrefix(u))
		}
	})

	It("reports state names", func() {
		Expect(assembler.AwaitingFirstDelta.String()).NotTo(BeEmpty())
		Expect(assembler.Done.String()).NotTo(Equal(assembler.Failed.String()))
	})
})
