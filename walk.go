package skemaedit

// Position is one schema-declared slot of a record as seen by Walk.
type Position struct {
	Path    Path
	Schema  FieldSchema
	Value   any
	Present bool
}

// Walk visits every position declared by fields, parents before children, in
// schema order. Arrays are expanded by the items the record currently holds.
// Returning false from fn skips the children of that position.
func Walk(fields []FieldSchema, record any, fn func(Position) bool) {
	root, _ := record.(map[string]any)
	for _, f := range fields {
		name := f.Meta().Name
		v, ok := root[name]
		walkField(Path{Field(name)}, f, v, ok, fn)
	}
}

func walkField(p Path, f FieldSchema, v any, present bool, fn func(Position) bool) {
	if !fn(Position{Path: p, Schema: f, Value: v, Present: present && v != nil}) {
		return
	}
	switch t := f.(type) {
	case *Object:
		m, _ := v.(map[string]any)
		for _, c := range t.Fields {
			name := c.Meta().Name
			cv, ok := m[name]
			walkField(p.Field(name), c, cv, ok, fn)
		}
	case *Array:
		arr, _ := v.([]any)
		for i, item := range arr {
			walkField(p.Index(i), itemSchemaAt(t, i), item, true, fn)
		}
	case *Primitive, *Reference:
	}
}

// MissingRequired lists required positions that are absent, nil or the
// empty string. It is advisory output for validation collaborators; no
// mutator consults it.
func MissingRequired(fields []FieldSchema, record any) []Path {
	var out []Path
	Walk(fields, record, func(pos Position) bool {
		if !pos.Schema.Meta().Required {
			return true
		}
		if !pos.Present || pos.Value == "" {
			out = append(out, pos.Path)
			return false
		}
		if arr, ok := pos.Value.([]any); ok && len(arr) == 0 {
			out = append(out, pos.Path)
		}
		return true
	})
	return out
}

// RequiredIssues converts MissingRequired output into Issues with the required
// code, for callers that report through the common error model.
func RequiredIssues(paths []Path) Issues {
	var iss Issues
	for _, p := range paths {
		iss = AppendIssues(iss, issueAt(p, CodeRequired, nil)...)
	}
	return iss
}
