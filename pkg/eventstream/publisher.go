// Package eventstream defines the chat telemetry events the relay emits and
// the publisher interface that ships them to an event stream backend.
package eventstream

import "context"

// Publisher publishes chat events to an event stream backend.
type Publisher interface {
	PublishChat(ctx context.Context, event *ChatRelayedEvent) error
	Close() error
}
