package skemaedit

import "fmt"

// Edit is the closed union of record mutations: SetValue, DeleteValue,
// AppendItem, RemoveItem and MoveItem. Apply each with Apply.
type Edit interface {
	// Target is the path the edit operates on (the array for list edits).
	Target() Path
	edit()
}

// SetValue stores Value at Path.
type SetValue struct {
	Path  Path
	Value any
}

// DeleteValue removes the object member at Path.
type DeleteValue struct {
	Path Path
}

// AppendItemEdit adds a default-initialized Item to the array at Path.
type AppendItemEdit struct {
	Path Path
	Item FieldSchema
}

// RemoveItemEdit drops element Index from the array at Path.
type RemoveItemEdit struct {
	Path  Path
	Index int
}

// MoveItemEdit moves element From to position To in the array at Path.
type MoveItemEdit struct {
	Path     Path
	From, To int
}

func (e SetValue) Target() Path       { return e.Path }
func (e DeleteValue) Target() Path    { return e.Path }
func (e AppendItemEdit) Target() Path { return e.Path }
func (e RemoveItemEdit) Target() Path { return e.Path }
func (e MoveItemEdit) Target() Path   { return e.Path }

func (SetValue) edit()       {}
func (DeleteValue) edit()    {}
func (AppendItemEdit) edit() {}
func (RemoveItemEdit) edit() {}
func (MoveItemEdit) edit()   {}

// Apply returns the record produced by e. record itself is never modified.
func Apply(record any, e Edit) (any, error) {
	switch t := e.(type) {
	case SetValue:
		return Set(record, t.Path, t.Value)
	case DeleteValue:
		return Delete(record, t.Path)
	case AppendItemEdit:
		return AppendItem(record, t.Path, t.Item)
	case RemoveItemEdit:
		return RemoveItem(record, t.Path, t.Index)
	case MoveItemEdit:
		return MoveItem(record, t.Path, t.From, t.To)
	default:
		return nil, fmt.Errorf("skemaedit: unsupported edit %T", e)
	}
}

// ReplayError reports which edit of a Replay failed.
type ReplayError struct {
	Position int
	Edit     Edit
	Err      error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("edit #%d (%T at %s): %v", e.Position, e.Edit, e.Edit.Target(), e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

// Replay applies edits in order and stops at the first failure.
func Replay(record any, edits ...Edit) (any, error) {
	cur := record
	for i, e := range edits {
		next, err := Apply(cur, e)
		if err != nil {
			return nil, &ReplayError{Position: i, Edit: e, Err: err}
		}
		cur = next
	}
	return cur, nil
}
