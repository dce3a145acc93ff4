package extraction

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn handed to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a completion request to the extraction model.
type Request struct {
	Model       string
	System      []string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
}

// Response carries the raw model text.
type Response struct {
	Text       string
	StopReason string
}

// LLMClient abstracts the model provider so the extractor can be tested with
// a double and swapped between providers.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
