package metrics_test

import (
	"io"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/metrics"
)

var _ = Describe("Metrics", func() {
	It("exposes recorded values", func() {
		m := metrics.New()
		m.RelayRequest(metrics.OutcomeStreamed)
		m.RelayRequest(metrics.OutcomeStreamed)
		m.GroundingFetch(20 * time.Millisecond)
		m.Streamed(128)
		m.APIRequest("/events", "2xx")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		body, err := io.ReadAll(rec.Body)
		Expect(err).NotTo(HaveOccurred())

		Expect(string(body)).To(ContainSubstring(`planora_relay_requests_total{outcome="streamed"} 2`))
		Expect(string(body)).To(ContainSubstring(`planora_relay_streamed_bytes_total 128`))
		Expect(string(body)).To(ContainSubstring(`planora_relay_grounding_fetch_seconds_count 1`))
		Expect(string(body)).To(ContainSubstring(`planora_api_requests_total{code="2xx",route="/events"} 1`))
	})

	It("tolerates a nil receiver", func() {
		var m *metrics.Metrics
		Expect(func() {
			m.RelayRequest(metrics.OutcomeThrottled)
			m.GroundingFetch(time.Second)
			m.Streamed(1)
			m.PublishFailed()
			m.APIRequest("/ping", "2xx")
		}).NotTo(Panic())
	})
})
