package assembler

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/llm"
)

// Suggestions are starter queries offered on an empty conversation.
var Suggestions = []string{
	"Tech events this weekend",
	"Music festivals in Kochi",
	"Free events near me",
}

// Message is one turn of visible conversation history.
type Message struct {
	Role    string
	Content string

	// Events are the referenced events attached to a finalized assistant turn.
	Events []catalog.Event
}

// Conversation holds the visible history of one chat and sends it to the
// relay one turn at a time.
//
// Only one turn streams at a time: Send returns ErrTurnInFlight while a
// previous turn is open. Cancel aborts the open turn.
//
// When a turn fails, both the partial assistant turn and the user turn that
// started it are removed from history, so the same text can be sent again.
type Conversation struct {
	client *Client

	// OnUpdate receives the accumulated raw assistant text while a turn
	// streams. See Assembler.OnUpdate.
	OnUpdate func(content string)

	mu       sync.Mutex
	history  []Message
	events   []catalog.Event
	inFlight bool
	cancel   context.CancelFunc
}

func NewConversation(client *Client, events []catalog.Event) *Conversation {
	return &Conversation{
		client: client,
		events: events,
	}
}

// SetEvents replaces the locally held event list.
func (c *Conversation) SetEvents(events []catalog.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
}

// History returns a copy of the visible history.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// InFlight reports whether a turn is streaming.
func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Cancel aborts the streaming turn, if any. The turn fails with a
// *StreamError wrapping context.Canceled.
func (c *Conversation) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Send appends text as a user turn, streams the assistant reply and appends
// it to history. Errors are *RelayError, *StreamError, ErrTurnInFlight or
// ErrEmptyMessage.
//
// A failed turn is rolled back whole: the user message is removed along
// with the unfinished reply, so history only ever holds answered pairs and
// the caller can resend the same text. The original web chat kept the
// unanswered user message on screen and dropped only the reply.
func (c *Conversation) Send(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	c.inFlight = true
	c.cancel = cancel
	c.history = append(c.history, Message{Role: llm.RoleUser, Content: text})
	transcript := c.transcriptLocked()
	events := c.events
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.inFlight = false
		c.cancel = nil
		c.mu.Unlock()
	}()

	turn, err := c.stream(ctx, transcript, events)
	if err != nil {
		c.mu.Lock()
		c.history = c.history[:len(c.history)-1]
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.history = append(c.history, Message{
		Role:    llm.RoleAssistant,
		Content: turn.Content,
		Events:  turn.ReferencedEvents,
	})
	c.mu.Unlock()

	return turn, nil
}

func (c *Conversation) stream(ctx context.Context, transcript llm.Transcript, events []catalog.Event) (*Turn, error) {
	body, err := c.client.Stream(ctx, transcript)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	a := &Assembler{
		Events:   events,
		OnUpdate: c.OnUpdate,
	}
	return a.Run(ctx, body)
}

// transcriptLocked returns the history as sent to the relay. Assistant
// turns carry their display text.
func (c *Conversation) transcriptLocked() llm.Transcript {
	t := make(llm.Transcript, 0, len(c.history))
	for _, m := range c.history {
		t = append(t, llm.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return t
}
