package generation

import "context"

// Prompt is a single chat-style request to a language model.
type Prompt struct {
	// System sets the model's behavior for the request.
	System string
	// User carries the instructions and the source text.
	User string
	// JSON asks the provider to constrain the answer to a JSON object when it supports that.
	JSON bool
}

// LLMClient is the boundary to an external text generation service.
// Implementations return the raw answer text; any transport, protocol or
// provider failure is returned as an error.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}
