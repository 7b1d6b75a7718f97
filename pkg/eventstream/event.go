package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatRelayed is emitted after the relay finishes forwarding a
	// streamed answer.
	EventTypeChatRelayed = "planora.chat.relayed"
)

// Outcome values for ChatRelayedEvent.
const (
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
)

// ChatRelayedEvent is a transport-neutral event payload for one relayed
// chat answer. It carries counts and references only, never message text.
type ChatRelayedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Request       RequestMeta `json:"request"`
	Answer        AnswerMeta  `json:"answer"`
}

// RequestMeta captures request lifecycle metadata for the event.
type RequestMeta struct {
	Path         string    `json:"path"`
	Model        string    `json:"model"`
	Turns        int       `json:"turns"`
	CatalogSize  int       `json:"catalog_size"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	DurationMs   int64     `json:"duration_ms"`
	HTTPStatus   int       `json:"http_status"`
	StreamedSize int64     `json:"streamed_bytes"`
}

// AnswerMeta summarizes what was streamed back.
type AnswerMeta struct {
	Outcome       string   `json:"outcome"`
	Deltas        int      `json:"deltas"`
	Characters    int      `json:"characters"`
	ReferencedIDs []string `json:"referenced_ids"`
}

// NewChatRelayedEvent fills in the envelope fields of a ChatRelayedEvent.
func NewChatRelayedEvent(req RequestMeta, answer AnswerMeta) *ChatRelayedEvent {
	if answer.ReferencedIDs == nil {
		answer.ReferencedIDs = []string{}
	}
	req.DurationMs = req.CompletedAt.Sub(req.StartedAt).Milliseconds()

	return &ChatRelayedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatRelayed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Request:       req,
		Answer:        answer,
	}
}
