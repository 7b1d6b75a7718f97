package assembler

import (
	"errors"
	"fmt"
)

var (
	// ErrTurnInFlight is returned by Conversation.Send while a previous turn
	// is still streaming.
	ErrTurnInFlight = errors.New("a response is still streaming")

	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("message is empty")
)

// StreamError reports a transport failure while a turn was being streamed.
// The partial turn has already been discarded when it is returned.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// RelayError is an error response returned by the chat relay.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}
