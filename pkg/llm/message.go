package llm

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Roles a caller may place in a transcript. The system role is reserved for
// the grounding prompt the relay prepends.
const (
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
	RoleSystem    = openai.ChatMessageRoleSystem
)

// ChatTurn is a single visible turn in a conversation.
type ChatTurn struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // plain text
}

// Transcript is the ordered list of turns a client sends with each request.
type Transcript []ChatTurn

// Validate reports the first turn whose role is not user or assistant.
func (t Transcript) Validate() error {
	for i, turn := range t {
		switch turn.Role {
		case RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("message %d: invalid role %q", i, turn.Role)
		}
	}
	return nil
}

// WithSystem returns the upstream message list: the system prompt followed
// by every turn in order. The transcript itself is not modified.
func (t Transcript) WithSystem(system string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(t)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: RoleSystem, Content: system})
	for _, turn := range t {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: turn.Role, Content: turn.Content})
	}
	return msgs
}
