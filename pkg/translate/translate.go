// Package translate defines the contract with the external translation
// collaborator. The comment pipeline never calls the translator itself; it
// hands extracted blocks upward and the hover layer invokes whichever
// implementation was injected.
//
// Network transports, retries and provider selection live outside this
// repository.
package translate

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// Translator turns text into the target language. target is a language
// code such as "de" or "zh-cn". Implementations may block on I/O; callers
// cancel through the context.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, target string) (string, error)

func (f Func) Translate(ctx context.Context, text, target string) (string, error) {
	return f(ctx, text, target)
}

// Static is an in-memory phrase-table translator for tests and offline use.
type Static struct {
	phrases map[string]map[string]string
}

func NewStatic() *Static {
	return &Static{phrases: make(map[string]map[string]string)}
}

// Add registers a translation of text into the target language.
func (s *Static) Add(target, text, translated string) {
	m, ok := s.phrases[target]
	if !ok {
		m = make(map[string]string)
		s.phrases[target] = m
	}
	m[text] = translated
}

func (s *Static) Translate(ctx context.Context, text, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Errorf("translation canceled: %w", err)
	}
	if translated, ok := s.phrases[target][text]; ok {
		return translated, nil
	}
	return "", errors.Errorf("no translation for %q into %s", text, target)
}
