package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/catalog/rest"
)

var _ = Describe("Store", func() {
	var (
		ctx      context.Context
		upstream *httptest.Server
		lastReq  *http.Request
		status   int
		body     string
	)

	BeforeEach(func() {
		ctx = context.Background()
		status = http.StatusOK
		body = `[
			{"id":"e1","title":"Kochi Jazz Night","description":"Live jazz","short_description":null,
			 "date":"2026-10-22","time":"19:30:00","location":"Fort Kochi","address":null,"price":499,
			 "category_id":"c1","featured":true,"category":{"name":"Music","slug":"music"}},
			{"id":"e2","title":"Open Mic","description":null,"date":"2026-10-23","price":0,"category":null}
		]`
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
	})

	AfterEach(func() {
		upstream.Close()
	})

	It("requires a URL and service key", func() {
		_, err := rest.NewStore(rest.Config{ServiceKey: "k"})
		Expect(err).To(HaveOccurred())
		_, err = rest.NewStore(rest.Config{URL: upstream.URL})
		Expect(err).To(HaveOccurred())
	})

	It("lists events with embedded categories", func() {
		store, err := rest.NewStore(rest.Config{URL: upstream.URL + "/", ServiceKey: "service-key"})
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		events, err := store.ListEventsWithCategory(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(lastReq.URL.Path).To(Equal("/rest/v1/events"))
		Expect(lastReq.URL.Query().Get("select")).To(Equal("*,category:categories(name,slug)"))
		Expect(lastReq.URL.Query().Get("order")).To(HavePrefix("date.asc"))
		Expect(lastReq.Header.Get("apikey")).To(Equal("service-key"))
		Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer service-key"))

		Expect(events).To(HaveLen(2))
		Expect(events[0].Title).To(Equal("Kochi Jazz Night"))
		Expect(events[0].ShortDescription).To(BeEmpty())
		Expect(events[0].CategoryName).To(Equal("Music"))
		Expect(events[0].Featured).To(BeTrue())
		Expect(events[0].Price).To(Equal(499.0))
		Expect(events[1].Description).To(BeEmpty())
		Expect(events[1].CategoryName).To(BeEmpty())
	})

	It("returns an error with the data store message on non-200", func() {
		status = http.StatusUnauthorized
		body = `{"message":"Invalid API key","code":"401"}`

		store, err := rest.NewStore(rest.Config{URL: upstream.URL, ServiceKey: "bad"})
		Expect(err).NotTo(HaveOccurred())

		_, err = store.ListEventsWithCategory(ctx)
		Expect(err).To(MatchError(ContainSubstring("status 401: Invalid API key")))
	})

	It("returns an error for a malformed body", func() {
		body = `{"not":"a list"`

		store, err := rest.NewStore(rest.Config{URL: upstream.URL, ServiceKey: "k"})
		Expect(err).NotTo(HaveOccurred())

		_, err = store.ListEventsWithCategory(ctx)
		Expect(err).To(MatchError(ContainSubstring("decoding response")))
	})
})
