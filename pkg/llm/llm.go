// Package llm is the boundary to the text-generation backend. The backend is
// treated as an opaque prompt-in, text-out function and is never assumed
// deterministic.
package llm

import "context"

// Generator produces a text completion for a prompt. Implementations surface
// backend failures (network, availability) as errors.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
