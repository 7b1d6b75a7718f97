package llm

import openai "github.com/sashabaranov/go-openai"

// ChatRequest is the body a client posts to the chat relay.
type ChatRequest struct {
	Messages Transcript `json:"messages"`
}

// NewUpstreamRequest builds the streaming chat completion request sent to the
// hosted model.
func NewUpstreamRequest(model, system string, transcript Transcript) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:    model,
		Messages: transcript.WithSystem(system),
		Stream:   true,
	}
}

// ChatPath is the relay route that accepts a ChatRequest.
const ChatPath = "/functions/ask-ai"
