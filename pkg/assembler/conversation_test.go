package assembler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planora/planora/pkg/assembler"
	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/llm"
)

var _ = Describe("Conversation", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		mu       sync.Mutex
		received []llm.ChatRequest
		conv     *assembler.Conversation
		jazzID   string
	)

	BeforeEach(func() {
		received = nil
		jazzID = catalog.DemoID("event:kochi-jazz-night")
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(sseStream("Try ", "[EVENT_ID:"+jazzID+"]")))
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case llm.ChatPath:
				var req llm.ChatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				mu.Lock()
				received = append(received, req)
				h := handler
				mu.Unlock()
				h(w, r)
			case "/events":
				_ = json.NewEncoder(w).Encode([]catalog.Event{{ID: jazzID, Title: "Kochi Jazz Night"}})
			default:
				http.NotFound(w, r)
			}
		}))

		client := assembler.NewClient(assembler.ClientConfig{RelayURL: server.URL, APIURL: server.URL})
		events, err := client.Events(context.Background())
		Expect(err).NotTo(HaveOccurred())
		conv = assembler.NewConversation(client, events)
	})

	AfterEach(func() {
		server.Close()
	})

	It("appends the user turn and the finalized assistant turn", func() {
		turn, err := conv.Send(context.Background(), "jazz this week?")
		Expect(err).NotTo(HaveOccurred())
		Expect(turn.Content).To(Equal("Try "))

		history := conv.History()
		Expect(history).To(HaveLen(2))
		Expect(history[0]).To(Equal(assembler.Message{Role: llm.RoleUser, Content: "jazz this week?"}))
		Expect(history[1].Role).To(Equal(llm.RoleAssistant))
		Expect(history[1].Events).To(HaveLen(1))
		Expect(history[1].Events[0].Title).To(Equal("Kochi Jazz Night"))
	})

	It("sends the full visible history with display text", func() {
		_, err := conv.Send(context.Background(), "first")
		Expect(err).NotTo(HaveOccurred())
		_, err = conv.Send(context.Background(), "second")
		Expect(err).NotTo(HaveOccurred())

		mu.Lock()
		defer mu.Unlock()
		Expect(received).To(HaveLen(2))
		Expect(received[1].Messages).To(Equal(llm.Transcript{
			{Role: llm.RoleUser, Content: "first"},
			{Role: llm.RoleAssistant, Content: "Try "},
			{Role: llm.RoleUser, Content: "second"},
		}))
	})

	It("rejects blank input", func() {
		_, err := conv.Send(context.Background(), "   ")
		Expect(err).To(MatchError(assembler.ErrEmptyMessage))
		Expect(conv.History()).To(BeEmpty())
	})

	It("surfaces relay errors and removes the failed user turn", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(llm.ErrorResponse{Error: "Rate limits exceeded, please try again later."})
		}

		_, err := conv.Send(context.Background(), "hello")
		var relayErr *assembler.RelayError
		Expect(errors.As(err, &relayErr)).To(BeTrue())
		Expect(relayErr.Status).To(Equal(http.StatusTooManyRequests))
		Expect(relayErr.Message).To(Equal("Rate limits exceeded, please try again later."))
		Expect(conv.History()).To(BeEmpty())
	})

	It("rolls back only the failed pair and lets the same text be resent", func() {
		_, err := conv.Send(context.Background(), "first")
		Expect(err).NotTo(HaveOccurred())

		mu.Lock()
		ok := handler
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(llm.ErrorResponse{Error: "AI service error"})
		}
		mu.Unlock()
		_, err = conv.Send(context.Background(), "second")
		Expect(err).To(HaveOccurred())

		history := conv.History()
		Expect(history).To(HaveLen(2))
		Expect(history[0].Content).To(Equal("first"))
		Expect(history[1].Role).To(Equal(llm.RoleAssistant))

		mu.Lock()
		handler = ok
		mu.Unlock()
		_, err = conv.Send(context.Background(), "second")
		Expect(err).NotTo(HaveOccurred())
		Expect(conv.History()).To(HaveLen(4))

		mu.Lock()
		defer mu.Unlock()
		Expect(received[2].Messages).To(HaveLen(3))
		Expect(received[2].Messages[2]).To(Equal(llm.ChatTurn{Role: llm.RoleUser, Content: "second"}))
	})

	It("falls back to a generic message when the error body is unreadable", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}

		_, err := conv.Send(context.Background(), "hello")
		var relayErr *assembler.RelayError
		Expect(errors.As(err, &relayErr)).To(BeTrue())
		Expect(relayErr.Message).To(Equal("Failed to get response"))
	})

	It("rejects a second send while a turn is streaming", func() {
		release := make(chan struct{})
		started := make(chan struct{})
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(deltaLine("slow")))
			w.(http.Flusher).Flush()
			close(started)
			<-release
			_, _ = w.Write([]byte("data: [DONE]\n\n"))
		}

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := conv.Send(context.Background(), "first")
			done <- err
		}()

		Eventually(started).Should(BeClosed())
		Eventually(conv.InFlight).Should(BeTrue())
		_, err := conv.Send(context.Background(), "second")
		Expect(err).To(MatchError(assembler.ErrTurnInFlight))

		close(release)
		Eventually(done).Should(Receive(BeNil()))
		Expect(conv.History()).To(HaveLen(2))
	})

	It("discards the turn when cancelled mid-stream", func() {
		started := make(chan struct{})
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(deltaLine("partial")))
			w.(http.Flusher).Flush()
			close(started)
			<-r.Context().Done()
		}

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, err := conv.Send(context.Background(), "first")
			done <- err
		}()

		Eventually(started).Should(BeClosed())
		conv.Cancel()

		var err error
		Eventually(done).Should(Receive(&err))
		var streamErr *assembler.StreamError
		Expect(errors.As(err, &streamErr)).To(BeTrue())
		Expect(conv.History()).To(BeEmpty())
		Expect(conv.InFlight()).To(BeFalse())
	})

	It("offers starter suggestions", func() {
		Expect(assembler.Suggestions).To(ContainElement("Music festivals in Kochi"))
	})
})
