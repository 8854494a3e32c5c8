// Package sink provides Submission sinks: where a finished edit goes is up
// to the caller, these cover files, tests and plain callbacks.
package sink

import (
	"context"
	"io"
	"sync"

	json "github.com/goccy/go-json"

	skemaedit "github.com/reoring/skemaedit"
)

// Func adapts a function to skemaedit.Sink.
type Func func(ctx context.Context, s *skemaedit.Submission) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, s *skemaedit.Submission) error { return f(ctx, s) }

// JSONLines writes one JSON document per submission. Writes are serialized
// so a single writer can be shared.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLines wraps w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

// Submit encodes s followed by a newline.
func (j *JSONLines) Submit(ctx context.Context, s *skemaedit.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(s)
}

// Memory keeps submissions in memory, mostly for tests and previews.
type Memory struct {
	mu   sync.Mutex
	subs []*skemaedit.Submission
}

// Submit stores s.
func (m *Memory) Submit(_ context.Context, s *skemaedit.Submission) error {
	m.mu.Lock()
	m.subs = append(m.subs, s)
	m.mu.Unlock()
	return nil
}

// All returns a snapshot of the stored submissions.
func (m *Memory) All() []*skemaedit.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*skemaedit.Submission(nil), m.subs...)
}

// Validating rejects submissions whose metadata fails Submission.Validate
// before they reach next.
func Validating(next skemaedit.Sink) skemaedit.Sink {
	return Func(func(ctx context.Context, s *skemaedit.Submission) error {
		if err := s.Validate(); err != nil {
			return err
		}
		return next.Submit(ctx, s)
	})
}

// SkipUnchanged drops submissions whose diff reports no change.
func SkipUnchanged(next skemaedit.Sink) skemaedit.Sink {
	return Func(func(ctx context.Context, s *skemaedit.Submission) error {
		if s.Diff != nil && !s.Diff.HasChanges() {
			return nil
		}
		return next.Submit(ctx, s)
	})
}
