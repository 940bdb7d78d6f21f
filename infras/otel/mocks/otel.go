// Package mocks provides otel.Otel doubles for tests. NewOtel discards everything,
// NewRecorder keeps span names and traced errors for assertions.
package mocks

import (
	"context"
	"sync"

	"hostly/infras/otel"
)

type discard struct{}

func (discard) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func NewOtel() otel.Otel {
	return discard{}
}

// Recorder is an otel.Otel that remembers what was traced.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors []error
	events []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	r.spans = append(r.spans, spanName)
	r.mu.Unlock()

	return ctx, &recordingScope{recorder: r}
}

func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}
