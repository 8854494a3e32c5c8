package skemaedit

// Records are compositions of map[string]any, []any and leaf values (string,
// json.Number, float64 and other numbers, bool, nil). Typed containers such
// as []string are leaves as far as this package is concerned; recordio
// normalizes decoded input into the generic shape.

// Get reads the value at p. Absent keys, nil intermediates, out-of-range
// indexes and leaves in container position all report ok == false; Get never
// fails.
func Get(record any, p Path) (any, bool) {
	cur := record
	for _, seg := range p {
		if seg.IsIndex() {
			arr, ok := cur.([]any)
			if !ok || seg.Idx() < 0 || seg.Idx() >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Idx()]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg.Name()]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// GetString parses s and reads the value there.
func GetString(record any, s string) (any, bool, error) {
	p, err := ParsePath(s)
	if err != nil {
		return nil, false, err
	}
	v, ok := Get(record, p)
	return v, ok, nil
}

// Set returns a new record with v stored at p. Only the containers on the
// spine from the root to p are copied; every off-spine subtree is shared with
// record, which is left untouched. Missing containers are synthesized as
// map[string]any or []any depending on the segment that addresses them.
//
// Writing index len(arr) appends; a larger or negative index fails with
// ErrIndexOutOfRange. Descending into a leaf fails with ErrTypeMismatch.
func Set(record any, p Path, v any) (any, error) {
	if len(p) == 0 {
		return v, nil
	}
	return setAt(record, p, 0, v)
}

// SetString parses s and calls Set.
func SetString(record any, s string, v any) (any, error) {
	p, err := ParsePath(s)
	if err != nil {
		return nil, err
	}
	return Set(record, p, v)
}

func setAt(cur any, p Path, depth int, v any) (any, error) {
	if depth == len(p) {
		return v, nil
	}
	seg := p[depth]
	if seg.IsIndex() {
		var arr []any
		switch t := cur.(type) {
		case nil:
		case []any:
			arr = t
		default:
			return nil, issueAt(p[:depth], CodeInvalidType, ErrTypeMismatch, "expected", "array")
		}
		i := seg.Idx()
		if i < 0 || i > len(arr) {
			return nil, issueAt(p[:depth+1], CodeIndexOutOfRange, ErrIndexOutOfRange, "index", i, "len", len(arr))
		}
		var child any
		if i < len(arr) {
			child = arr[i]
		}
		nv, err := setAt(child, p, depth+1, v)
		if err != nil {
			return nil, err
		}
		size := len(arr)
		if i == size {
			size++
		}
		out := make([]any, size)
		copy(out, arr)
		out[i] = nv
		return out, nil
	}

	var m map[string]any
	switch t := cur.(type) {
	case nil:
	case map[string]any:
		m = t
	default:
		return nil, issueAt(p[:depth], CodeInvalidType, ErrTypeMismatch, "expected", "object")
	}
	nv, err := setAt(m[seg.Name()], p, depth+1, v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[seg.Name()] = nv
	return out, nil
}

// Delete returns a new record without the object member at p. Deleting an
// absent member, or a path whose parent is missing, returns record as is.
// An empty path deletes nothing. The last segment must name an object
// member; use RemoveItem for arrays.
func Delete(record any, p Path) (any, error) {
	last, ok := p.Last()
	if !ok {
		return record, nil
	}
	if last.IsIndex() {
		return nil, issueAt(p, CodeInvalidType, ErrTypeMismatch, "expected", "object")
	}
	parent, ok := Get(record, p.Parent())
	if !ok {
		return record, nil
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return record, nil
	}
	if _, ok := m[last.Name()]; !ok {
		return record, nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		if k != last.Name() {
			out[k] = val
		}
	}
	if len(p) == 1 {
		return out, nil
	}
	return Set(record, p.Parent(), out)
}
