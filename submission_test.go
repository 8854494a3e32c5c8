package skemaedit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
	return at
}

func TestNewRecordSubmission(t *testing.T) {
	at := fixedNow(t)
	before := map[string]any{"title": "A"}
	after := map[string]any{"title": "B"}

	s := NewRecordSubmission(billFields(), before, after, SubmissionMeta{
		TargetEntityID: "bill-42",
		EntityKind:     "bill",
		Reason:         "typo",
	})
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("ID %q is not a uuid: %v", s.ID, err)
	}
	if s.Scope != ScopeFullRecord || s.Path != "" {
		t.Fatalf("scope = %v, path = %q", s.Scope, s.Path)
	}
	if !s.CreatedAt.Equal(at) || s.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt = %v", s.CreatedAt)
	}
	if !s.Diff.HasChanges() {
		t.Fatalf("diff lost the change")
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNewFieldSubmission(t *testing.T) {
	fixedNow(t)
	before := map[string]any{"sponsors": []any{map[string]any{"name": "Alice"}}}
	after := map[string]any{"sponsors": []any{map[string]any{"name": "Alicia"}}}

	s := NewFieldSubmission(billFields(), before, after, MustParsePath("sponsors[0].name"), SubmissionMeta{
		TargetEntityID:    "bill-42",
		Reason:            "spelling",
		EvidenceReference: "https://example.org/record",
	})
	if s.Scope != ScopeSingleField || s.Path != "sponsors[0].name" {
		t.Fatalf("scope = %v, path = %q", s.Scope, s.Path)
	}
	if s.OldValue != "Alice" || s.NewValue != "Alicia" {
		t.Fatalf("old/new = %v/%v", s.OldValue, s.NewValue)
	}
	name, ok := s.Diff.Field("name")
	if !ok || name.Status != Changed {
		t.Fatalf("diff = %+v", s.Diff)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNewFieldSubmission_UnknownPath(t *testing.T) {
	s := NewFieldSubmission(billFields(), map[string]any{"extra": "a"}, map[string]any{"extra": "b"}, MustParsePath("extra"), SubmissionMeta{})
	n, ok := s.Diff.Field("extra")
	if !ok || n.Status != Changed {
		t.Fatalf("untyped leaf diff = %+v", s.Diff)
	}
}

func TestSubmission_Validate(t *testing.T) {
	valid := func() *Submission {
		return &Submission{
			ID:             uuid.NewString(),
			TargetEntityID: "bill-42",
			Reason:         "typo",
			CreatedAt:      time.Now(),
		}
	}
	cases := map[string]struct {
		mutate func(*Submission)
		field  string
	}{
		"missing id":          {func(s *Submission) { s.ID = "" }, "/id"},
		"bad id":              {func(s *Submission) { s.ID = "not-a-uuid" }, "/id"},
		"missing target":      {func(s *Submission) { s.TargetEntityID = "" }, "/targetEntityId"},
		"missing reason":      {func(s *Submission) { s.Reason = "" }, "/reason"},
		"field scope no path": {func(s *Submission) { s.Scope = ScopeSingleField }, "/path"},
		"long evidence":       {func(s *Submission) { s.EvidenceReference = strings.Repeat("x", 2001) }, "/evidenceReference"},
		"zero time":           {func(s *Submission) { s.CreatedAt = time.Time{} }, "/createdAt"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			err := s.Validate()
			iss, ok := AsIssues(err)
			if !ok {
				t.Fatalf("want Issues, got %v", err)
			}
			if iss[0].Code != CodeInvalidSubmission || iss[0].Path != tc.field {
				t.Fatalf("issue = %+v, want path %s", iss[0], tc.field)
			}
		})
	}
}

func TestSubmission_JSON(t *testing.T) {
	fixedNow(t)
	s := NewFieldSubmission(billFields(), map[string]any{"title": "A"}, map[string]any{"title": "B"}, MustParsePath("title"), SubmissionMeta{
		TargetEntityID: "bill-42",
		Reason:         "typo",
	})
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["scope"] != "single_field" || back["targetEntityId"] != "bill-42" || back["createdAt"] != "2024-05-01T03:00:00Z" {
		t.Fatalf("wire form = %s", b)
	}
	if _, ok := back["evidenceReference"]; ok {
		t.Fatalf("empty evidence emitted: %s", b)
	}

	var sc Scope
	if err := sc.UnmarshalText([]byte("single_field")); err != nil || sc != ScopeSingleField {
		t.Fatalf("UnmarshalText = %v, %v", sc, err)
	}
	if err := sc.UnmarshalText([]byte("partial")); err == nil {
		t.Fatalf("unknown scope accepted")
	}
}

func TestSession_Submission(t *testing.T) {
	s := NewSession(billFields(), map[string]any{"title": "A"})
	if err := s.Set("title", "B"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sub := s.Submission(SubmissionMeta{TargetEntityID: "bill-42", Reason: "r"})
	if sub.OldValue.(map[string]any)["title"] != "A" || sub.NewValue.(map[string]any)["title"] != "B" {
		t.Fatalf("values = %v -> %v", sub.OldValue, sub.NewValue)
	}
	if _, err := s.FieldSubmission("a..b", SubmissionMeta{}); !errors.Is(err, ErrMalformedPath) {
		t.Fatalf("want ErrMalformedPath, got %v", err)
	}
	fs, err := s.FieldSubmission("title", SubmissionMeta{TargetEntityID: "bill-42", Reason: "r"})
	if err != nil || fs.NewValue != "B" {
		t.Fatalf("FieldSubmission = %+v, %v", fs, err)
	}
}

type recordingSink struct{ got []*Submission }

func (r *recordingSink) Submit(_ context.Context, s *Submission) error {
	r.got = append(r.got, s)
	return nil
}

func TestSink_Interface(t *testing.T) {
	var sink Sink = &recordingSink{}
	sub := NewRecordSubmission(billFields(), nil, map[string]any{"title": "A"}, SubmissionMeta{TargetEntityID: "x", Reason: "new"})
	if err := sink.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := len(sink.(*recordingSink).got); n != 1 {
		t.Fatalf("got %d submissions", n)
	}
}
