// Package llm abstracts the completion backend the chat features talk to.
// Callers hand it a fully assembled prompt; conversation history and profile
// context live in the database, not in the model.
package llm

import (
	"context"
)

// LLM produces a completion for a prompt. Implementations are stateless
// between calls.
type LLM interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Option overrides a generation parameter for a single call. Defaults come
// from the backend's configuration.
type Option func(*Options)

// Options are the per-call generation parameters
type Options struct {
	Temperature float64
	MaxTokens   int
}

// WithTemperature overrides the sampling temperature for one call
func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

// WithMaxTokens caps the completion length for one call
func WithMaxTokens(tokens int) Option {
	return func(o *Options) {
		o.MaxTokens = tokens
	}
}
