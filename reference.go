package skemaedit

import (
	"context"
	"sort"
)

// Candidate is one selectable entity for a reference field.
type Candidate struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// ReferenceLookup supplies candidates for reference fields. The core never
// dereferences reference values; it only stores the chosen ID.
type ReferenceLookup interface {
	Candidates(ctx context.Context, entityType string) ([]Candidate, error)
}

// StaticLookup serves candidates from memory, keyed by entity type.
type StaticLookup map[string][]Candidate

// Candidates returns the candidates for entityType sorted by display name.
// Unknown types yield an empty list.
func (s StaticLookup) Candidates(_ context.Context, entityType string) ([]Candidate, error) {
	out := append([]Candidate(nil), s[entityType]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

// ReferenceFields lists the paths of reference-kind fields reachable without
// crossing an array, keyed by path string, for lookup prefetching.
func ReferenceFields(fields []FieldSchema) map[string]*Reference {
	out := map[string]*Reference{}
	var walk func(p Path, fs []FieldSchema)
	walk = func(p Path, fs []FieldSchema) {
		for _, f := range fs {
			switch t := f.(type) {
			case *Reference:
				out[p.Field(t.M.Name).String()] = t
			case *Object:
				walk(p.Field(t.M.Name), t.Fields)
			case *Array, *Primitive:
			}
		}
	}
	walk(nil, fields)
	return out
}
