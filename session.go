package skemaedit

// Session tracks one editing pass over a record: the original, the current
// value and the edits that led from one to the other. It is owned by a
// single caller; every method replaces Current with a fresh record and a
// failed edit leaves the session untouched.
type Session struct {
	Fields   []FieldSchema
	Original any
	Current  any
	History  []Edit
}

// NewSession starts a session on record.
func NewSession(fields []FieldSchema, record any) *Session {
	return &Session{Fields: fields, Original: record, Current: record}
}

// Apply runs e against Current and records it.
func (s *Session) Apply(e Edit) error {
	next, err := Apply(s.Current, e)
	if err != nil {
		return err
	}
	s.Current = next
	s.History = append(s.History, e)
	return nil
}

// Set parses path and stores v there.
func (s *Session) Set(path string, v any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return s.Apply(SetValue{Path: p, Value: v})
}

// Delete parses path and removes the member there.
func (s *Session) Delete(path string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return s.Apply(DeleteValue{Path: p})
}

// Append adds a default item to the array at path. The item schema comes
// from the session schema.
func (s *Session) Append(path string) error {
	p, item, err := s.arrayItem(path)
	if err != nil {
		return err
	}
	return s.Apply(AppendItemEdit{Path: p, Item: item})
}

// Remove drops element index of the array at path.
func (s *Session) Remove(path string, index int) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return s.Apply(RemoveItemEdit{Path: p, Index: index})
}

// Move relocates element from to position to within the array at path.
func (s *Session) Move(path string, from, to int) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return s.Apply(MoveItemEdit{Path: p, From: from, To: to})
}

// Undo drops the last edit and rebuilds Current by replaying the rest from
// Original. It reports false when there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	if len(s.History) == 0 {
		return false, nil
	}
	rest := s.History[:len(s.History)-1]
	cur, err := Replay(s.Original, rest...)
	if err != nil {
		return false, err
	}
	s.Current = cur
	s.History = append([]Edit(nil), rest...)
	return true, nil
}

// Dirty reports whether Current differs from Original.
func (s *Session) Dirty() bool { return s.Diff().HasChanges() }

// Diff compares Original with Current.
func (s *Session) Diff() *DiffNode { return Diff(s.Fields, s.Original, s.Current) }

// Resolve returns the schema at path, if any.
func (s *Session) Resolve(path string) (FieldSchema, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return Resolve(s.Fields, p)
}

func (s *Session) arrayItem(path string) (Path, FieldSchema, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, nil, err
	}
	f, ok := Resolve(s.Fields, p)
	if !ok {
		return nil, nil, issueAt(p, CodeNotFound, ErrNotFound, "path", path)
	}
	arr, ok := f.(*Array)
	if !ok || arr.Item == nil {
		return nil, nil, issueAt(p, CodeInvalidType, ErrTypeMismatch, "expected", "array")
	}
	return p, arr.Item, nil
}
