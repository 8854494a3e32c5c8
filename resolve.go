package skemaedit

import "strconv"

// Resolve returns the field schema describing the value at p. The walk starts
// at a synthetic root object whose children are fields. ok is false when p
// does not match the schema shape; callers fall back to an untyped editor.
func Resolve(fields []FieldSchema, p Path) (FieldSchema, bool) {
	return resolveFrom(Root(fields...), p)
}

// ResolveIn is Resolve starting from an arbitrary schema node.
func ResolveIn(start FieldSchema, p Path) (FieldSchema, bool) {
	return resolveFrom(start, p)
}

// ResolveString parses s and resolves it. Malformed paths are errors; a
// well-formed path that misses the schema returns an Issue wrapping
// ErrNotFound.
func ResolveString(fields []FieldSchema, s string) (FieldSchema, error) {
	p, err := ParsePath(s)
	if err != nil {
		return nil, err
	}
	f, ok := Resolve(fields, p)
	if !ok {
		return nil, issueAt(p, CodeNotFound, ErrNotFound, "path", s)
	}
	return f, nil
}

func resolveFrom(cur FieldSchema, p Path) (FieldSchema, bool) {
	for _, seg := range p {
		if seg.IsIndex() {
			arr, ok := cur.(*Array)
			if !ok || arr.Item == nil {
				return nil, false
			}
			cur = itemSchemaAt(arr, seg.Idx())
			continue
		}
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}
		child, ok := obj.Field(seg.Name())
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// itemSchemaAt yields the schema of slot i. Bare primitive and reference
// item tags get a transient copy named after the index so every resolved
// schema carries a name.
func itemSchemaAt(arr *Array, i int) FieldSchema {
	item := arr.Item
	switch item.(type) {
	case *Primitive, *Reference:
		if item.Meta().Name == "" {
			return renamed(item, strconv.Itoa(i))
		}
	}
	return item
}
