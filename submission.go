package skemaedit

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Scope says whether a submission covers the whole record or one field.
type Scope int

const (
	ScopeFullRecord Scope = iota
	ScopeSingleField
)

func (s Scope) String() string {
	if s == ScopeSingleField {
		return "single_field"
	}
	return "full_record"
}

// MarshalText renders the scope name.
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (s *Scope) UnmarshalText(b []byte) error {
	switch string(b) {
	case "full_record", "":
		*s = ScopeFullRecord
	case "single_field":
		*s = ScopeSingleField
	default:
		return errors.New("skemaedit: unknown scope " + string(b))
	}
	return nil
}

// Submission is the packaged result of an editing pass, handed to a Sink.
// The core only assembles it; persistence and notification belong to the
// sink.
type Submission struct {
	ID                string    `json:"id" validate:"required,uuid"`
	TargetEntityID    string    `json:"targetEntityId" validate:"required"`
	EntityKind        string    `json:"entityKind,omitempty"`
	Scope             Scope     `json:"scope" validate:"oneof=0 1"`
	Path              string    `json:"path,omitempty" validate:"required_if=Scope 1"`
	OldValue          any       `json:"oldValue"`
	NewValue          any       `json:"newValue"`
	Diff              *DiffNode `json:"diff,omitempty" validate:"-"`
	Reason            string    `json:"reason" validate:"required,max=4000"`
	EvidenceReference string    `json:"evidenceReference,omitempty" validate:"max=2000"`
	CreatedAt         time.Time `json:"createdAt" validate:"required"`
}

// SubmissionMeta is the free-text metadata supplied by the editor.
type SubmissionMeta struct {
	TargetEntityID    string
	EntityKind        string
	Reason            string
	EvidenceReference string
}

// Sink accepts finished submissions. Implementations live outside the core
// (see package sink for a few adapters).
type Sink interface {
	Submit(ctx context.Context, s *Submission) error
}

var now = time.Now

// NewRecordSubmission packages a whole-record edit.
func NewRecordSubmission(fields []FieldSchema, before, after any, meta SubmissionMeta) *Submission {
	return &Submission{
		ID:                uuid.NewString(),
		TargetEntityID:    meta.TargetEntityID,
		EntityKind:        meta.EntityKind,
		Scope:             ScopeFullRecord,
		OldValue:          before,
		NewValue:          after,
		Diff:              Diff(fields, before, after),
		Reason:            meta.Reason,
		EvidenceReference: meta.EvidenceReference,
		CreatedAt:         now().UTC(),
	}
}

// NewFieldSubmission packages the edit of the single field at p. A path the
// schema does not describe is diffed as an untyped leaf.
func NewFieldSubmission(fields []FieldSchema, before, after any, p Path, meta SubmissionMeta) *Submission {
	oldV, _ := Get(before, p)
	newV, _ := Get(after, p)
	f, ok := Resolve(fields, p)
	if !ok {
		name := ""
		if last, ok := p.Last(); ok {
			name = last.String()
		}
		f = Text(name)
	}
	return &Submission{
		ID:                uuid.NewString(),
		TargetEntityID:    meta.TargetEntityID,
		EntityKind:        meta.EntityKind,
		Scope:             ScopeSingleField,
		Path:              p.String(),
		OldValue:          oldV,
		NewValue:          newV,
		Diff:              DiffField(f, oldV, newV),
		Reason:            meta.Reason,
		EvidenceReference: meta.EvidenceReference,
		CreatedAt:         now().UTC(),
	}
}

// Submission packages the session's whole-record changes.
func (s *Session) Submission(meta SubmissionMeta) *Submission {
	return NewRecordSubmission(s.Fields, s.Original, s.Current, meta)
}

// FieldSubmission packages the session's changes at one path.
func (s *Session) FieldSubmission(path string, meta SubmissionMeta) (*Submission, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return NewFieldSubmission(s.Fields, s.Original, s.Current, p, meta), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the payload metadata a sink relies on (identifiers,
// reason, path for single-field scope). Record contents are not validated.
func (s *Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var iss Issues
	for _, fe := range verrs {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + fe.Field(),
			Code:    CodeInvalidSubmission,
			Message: fe.Error(),
			Params:  map[string]any{"rule": fe.Tag(), "param": fe.Param()},
		})
	}
	return iss
}
