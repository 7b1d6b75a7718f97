package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("fills envelope fields and duration", func() {
		start := time.Unix(1735689600, 0).UTC()
		event := eventstream.NewChatRelayedEvent(
			eventstream.RequestMeta{StartedAt: start, CompletedAt: start.Add(2 * time.Second), HTTPStatus: 200},
			eventstream.AnswerMeta{Outcome: eventstream.OutcomeCompleted, ReferencedIDs: []string{"a"}},
		)

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeChatRelayed))
		Expect(event.EventID).NotTo(BeEmpty())
		Expect(event.Request.DurationMs).To(Equal(int64(2000)))
	})

	It("marshals with the expected top-level keys", func() {
		event := eventstream.NewChatRelayedEvent(eventstream.RequestMeta{}, eventstream.AnswerMeta{})
		data, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKey("schema_version"))
		Expect(decoded).To(HaveKey("event_type"))
		Expect(decoded).To(HaveKey("event_id"))
		Expect(decoded).To(HaveKey("emitted_at"))
		Expect(decoded).To(HaveKey("request"))
		Expect(decoded).To(HaveKey("answer"))
	})
})
