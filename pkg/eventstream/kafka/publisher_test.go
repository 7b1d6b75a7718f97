package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/planora/planora/pkg/eventstream"
	"github.com/planora/planora/pkg/eventstream/kafka"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *recordingWriter
		p *kafka.Publisher
	)

	BeforeEach(func() {
		w = &recordingWriter{}
		p = kafka.NewPublisherWithWriter(w, time.Second)
	})

	It("requires brokers and a topic", func() {
		_, err := kafka.NewPublisher(kafka.Config{Topic: "t"})
		Expect(err).To(HaveOccurred())
		_, err = kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}})
		Expect(err).To(HaveOccurred())
	})

	It("rejects nil events", func() {
		Expect(p.PublishChat(context.Background(), nil)).To(MatchError(eventstream.ErrNilChatEvent))
	})

	It("writes the event as a JSON message keyed by event id", func() {
		start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
		event := eventstream.NewChatRelayedEvent(
			eventstream.RequestMeta{Path: "/functions/ask-ai", Turns: 1, StartedAt: start, CompletedAt: start.Add(1500 * time.Millisecond)},
			eventstream.AnswerMeta{Outcome: eventstream.OutcomeCompleted, Deltas: 3},
		)

		Expect(p.PublishChat(context.Background(), event)).To(Succeed())
		Expect(w.msgs).To(HaveLen(1))
		Expect(string(w.msgs[0].Key)).To(Equal(event.EventID))

		var decoded map[string]any
		Expect(json.Unmarshal(w.msgs[0].Value, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("event_type", eventstream.EventTypeChatRelayed))
		Expect(decoded["request"]).To(HaveKeyWithValue("duration_ms", BeNumerically("==", 1500)))
		Expect(decoded["answer"]).To(HaveKeyWithValue("referenced_ids", BeEmpty()))
	})

	It("wraps writer failures", func() {
		w.err = errors.New("leader not available")
		err := p.PublishChat(context.Background(), eventstream.NewChatRelayedEvent(eventstream.RequestMeta{}, eventstream.AnswerMeta{}))
		Expect(err).To(MatchError(ContainSubstring("leader not available")))
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})
})
