package llm

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// ParseDelta decodes one streamed chat completion payload and returns the
// content delta of its first choice. Payloads without choices or content
// yield an empty string.
func ParseDelta(payload []byte) (string, error) {
	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}
