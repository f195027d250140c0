package llm

import (
	"context"
	"errors"
)

// Client is an opaque text-generation capability: one prompt in, free-form
// text out. Implementations may call a hosted model or return canned text
// (for tests).
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the model answered with no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

func (f ClientFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
