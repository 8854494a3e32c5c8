package skemaedit

// DefaultValue synthesizes the initial value of a freshly added item: ""
// for text-like primitives and references, 0 for numbers, false for
// booleans, an empty list for arrays, and for objects a map holding every
// declared child (recursively) so each field is addressable before it is
// filled in.
func DefaultValue(f FieldSchema) any {
	switch t := f.(type) {
	case *Primitive:
		switch t.Type {
		case TypeNumber:
			return float64(0)
		case TypeBoolean:
			return false
		default:
			return ""
		}
	case *Reference:
		return ""
	case *Object:
		m := make(map[string]any, len(t.Fields))
		for _, c := range t.Fields {
			m[c.Meta().Name] = DefaultValue(c)
		}
		return m
	case *Array:
		return []any{}
	default:
		return nil
	}
}

// AppendItem adds a default-initialized item at the end of the array at
// arrayPath, creating the array when it is absent.
func AppendItem(record any, arrayPath Path, item FieldSchema) (any, error) {
	n := 0
	if arr, ok := getArray(record, arrayPath); ok {
		n = len(arr)
	}
	return Set(record, arrayPath.Index(n), DefaultValue(item))
}

// RemoveItem drops the element at index and writes the shortened array back
// as a whole so later items shift down by one. An out-of-range index or a
// missing array is a no-op: UI state may briefly disagree with the record.
func RemoveItem(record any, arrayPath Path, index int) (any, error) {
	arr, ok := getArray(record, arrayPath)
	if !ok || index < 0 || index >= len(arr) {
		return record, nil
	}
	out := make([]any, 0, len(arr)-1)
	out = append(out, arr[:index]...)
	out = append(out, arr[index+1:]...)
	return Set(record, arrayPath, out)
}

// MoveItem relocates the element at from to position to, shifting the items
// in between. Out-of-range positions are a no-op like RemoveItem.
func MoveItem(record any, arrayPath Path, from, to int) (any, error) {
	arr, ok := getArray(record, arrayPath)
	if !ok || from < 0 || from >= len(arr) || to < 0 || to >= len(arr) || from == to {
		return record, nil
	}
	out := make([]any, 0, len(arr))
	moved := arr[from]
	for i, v := range arr {
		if i == from {
			continue
		}
		out = append(out, v)
	}
	out = append(out[:to], append([]any{moved}, out[to:]...)...)
	return Set(record, arrayPath, out)
}

func getArray(record any, p Path) ([]any, bool) {
	v, ok := Get(record, p)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}
