package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTranslation is returned by a backend that answered without text.
var ErrEmptyTranslation = errors.New("backend returned an empty translation")

// ErrNoBackend is returned when a Chain has nothing to call.
var ErrNoBackend = errors.New("no translation backend configured")

// Backend performs one translation request. code is the value produced by
// ResolveLanguage; each backend formats it for its own API.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, code string) (string, error)
}

// Echo returns every input unchanged. It is used for dry runs and tests.
type Echo struct{}

func (Echo) Name() string { return "echo" }

func (Echo) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// Chain tries each backend in order and returns the first successful result.
type Chain []Backend

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, b := range c {
		names[i] = b.Name()
	}
	return strings.Join(names, ">")
}

func (c Chain) Translate(ctx context.Context, text, code string) (string, error) {
	if len(c) == 0 {
		return "", ErrNoBackend
	}

	var errs []error
	for _, b := range c {
		out, err := b.Translate(ctx, text, code)
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

func systemPrompt(code string) string {
	return fmt.Sprintf("You are a professional translator. Translate the user's text into the language with code %q. "+
		"Keep the meaning, tone and formatting, including leading and trailing whitespace. "+
		"Respond with only the translation, nothing else.", code)
}
