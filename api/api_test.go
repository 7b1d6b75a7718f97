package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/catalog/inmemory"
	"github.com/planora/planora/pkg/llm"
	"github.com/planora/planora/pkg/logger"
	"github.com/planora/planora/pkg/metrics"
)

type brokenStore struct{}

func (brokenStore) ListEventsWithCategory(context.Context) ([]catalog.Event, error) {
	return nil, errors.New("database is locked")
}

func (brokenStore) Close() error { return nil }

var _ = Describe("Server", func() {
	var (
		server *Server
		store  catalog.Store
		m      *metrics.Metrics
	)

	BeforeEach(func() {
		mem := inmemory.NewStore()
		ctx := context.Background()
		Expect(mem.UpsertCategories(ctx, catalog.DemoCategories())).To(Succeed())
		Expect(mem.UpsertEvents(ctx, catalog.DemoEvents(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))).To(Succeed())
		store = mem
		m = metrics.New()
	})

	JustBeforeEach(func() {
		var err error
		server, err = NewServer(Config{ListenAddr: ":0", Metrics: m}, store, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Shutdown()
	})

	get := func(path string) *http.Response {
		resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("requires a store", func() {
		_, err := NewServer(Config{}, nil, logger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("answers ping", func() {
		resp := get("/ping")
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(Equal(`"pong"`))
	})

	It("lists the catalog in date order with categories", func() {
		resp := get("/events")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var events []catalog.Event
		Expect(json.NewDecoder(resp.Body).Decode(&events)).To(Succeed())
		Expect(events).To(HaveLen(len(catalog.DemoEvents(time.Now()))))
		for i := 1; i < len(events); i++ {
			Expect(events[i-1].Date <= events[i].Date).To(BeTrue())
		}

		byID := make(map[string]catalog.Event, len(events))
		for _, e := range events {
			byID[e.ID] = e
		}
		jazz := byID[catalog.DemoID("event:kochi-jazz-night")]
		Expect(jazz.CategoryName).To(Equal("Music"))
		Expect(jazz.CategorySlug).To(Equal("music"))
	})

	It("lists uncategorized events with an empty category", func() {
		resp := get("/events")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var events []map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&events)).To(Succeed())

		openMicID := catalog.DemoID("event:open-mic-evening")
		var openMic map[string]any
		for _, e := range events {
			if e["id"] == openMicID {
				openMic = e
			}
		}
		Expect(openMic).NotTo(BeNil())
		Expect(openMic["title"]).To(Equal("Open Mic Evening"))
		Expect(openMic["category_name"]).To(BeNil())
	})

	It("gets a single event", func() {
		id := catalog.DemoID("event:kochi-jazz-night")
		resp := get("/events/" + id)
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var event catalog.Event
		Expect(json.NewDecoder(resp.Body).Decode(&event)).To(Succeed())
		Expect(event.Title).To(Equal("Kochi Jazz Night"))
		Expect(event.Date).To(Equal("2026-10-22"))
	})

	It("returns 404 for an unknown event", func() {
		resp := get("/events/does-not-exist")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

		var er llm.ErrorResponse
		Expect(json.NewDecoder(resp.Body).Decode(&er)).To(Succeed())
		Expect(er.Error).To(Equal("event not found"))
	})

	It("serves Prometheus metrics with request counts", func() {
		get("/ping").Body.Close()

		resp := get("/metrics")
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring(`planora_api_requests_total{code="2xx",route="/ping"} 1`))
	})

	It("mounts the MCP endpoint", func() {
		req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
			`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"t","version":"0"}}}`,
		))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")

		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring(`"planora"`))
	})

	Context("when the store fails", func() {
		BeforeEach(func() {
			store = brokenStore{}
		})

		It("returns a JSON error", func() {
			resp := get("/events")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

			var er llm.ErrorResponse
			Expect(json.NewDecoder(resp.Body).Decode(&er)).To(Succeed())
			Expect(er.Error).To(Equal("Failed to fetch events"))
		})
	})
})
