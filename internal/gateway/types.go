package gateway

import "context"

// Usage holds token usage reported by a backend.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates u into the receiver.
func (u *Usage) Add(o Usage) {
	u.PromptTokens += o.PromptTokens
	u.CompletionTokens += o.CompletionTokens
	u.TotalTokens += o.TotalTokens
}

// Completion is the outcome of one prompt.
// Success=false is a service-reported failure; it is not an error.
type Completion struct {
	Success bool
	Text    string
	Usage   Usage
	Cached  bool
}

// Completer sends a single prompt to a completion service.
// Transport failures and timeouts are returned as errors.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (Completion, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (Completion, error) {
	return f(ctx, prompt)
}
