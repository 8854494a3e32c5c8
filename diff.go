package skemaedit

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Status tags a DiffNode.
type Status int

const (
	Unchanged Status = iota
	Changed
	Added
	Removed
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// DiffNode is one schema-aligned position of a structural diff. Leaves carry
// Old/New; objects carry Fields in schema order; arrays carry Items aligned
// by index. Nodes are built fresh per Diff call and never mutated afterwards.
type DiffNode struct {
	Status Status
	Schema FieldSchema
	Old    any // nil when absent
	New    any // nil when absent
	Fields []FieldDiff
	Items  []*DiffNode
}

// FieldDiff pairs an object member name with its diff.
type FieldDiff struct {
	Name string
	Node *DiffNode
}

// Diff compares two records that share the top-level schema fields. The
// result is rooted at the synthetic root object.
//
// Arrays are compared position by position: inserting into the middle of a
// list shows as a run of changed items followed by one added item.
func Diff(fields []FieldSchema, before, after any) *DiffNode {
	return diffNode(Root(fields...), before, after)
}

// DiffField compares two values of a single field. It is Diff over a
// synthetic object whose only child is field.
func DiffField(field FieldSchema, oldValue, newValue any) *DiffNode {
	name := field.Meta().Name
	return Diff([]FieldSchema{field}, wrapValue(name, oldValue), wrapValue(name, newValue))
}

func wrapValue(name string, v any) any {
	if v == nil {
		return nil
	}
	return map[string]any{name: v}
}

func diffNode(f FieldSchema, before, after any) *DiffNode {
	switch t := f.(type) {
	case *Object:
		bm, bok := before.(map[string]any)
		am, aok := after.(map[string]any)
		if (before != nil && !bok) || (after != nil && !aok) {
			return diffLeaf(f, before, after)
		}
		n := &DiffNode{Schema: f, Old: before, New: after, Fields: make([]FieldDiff, 0, len(t.Fields))}
		allSame := true
		for _, c := range t.Fields {
			name := c.Meta().Name
			cn := diffNode(c, bm[name], am[name])
			if cn.Status != Unchanged {
				allSame = false
			}
			n.Fields = append(n.Fields, FieldDiff{Name: name, Node: cn})
		}
		n.Status = containerStatus(allSame, before, after)
		return n
	case *Array:
		ba, bok := before.([]any)
		aa, aok := after.([]any)
		if (before != nil && !bok) || (after != nil && !aok) || t.Item == nil {
			return diffLeaf(f, before, after)
		}
		n := &DiffNode{Schema: f, Old: before, New: after}
		allSame := true
		common := min(len(ba), len(aa))
		for i := 0; i < common; i++ {
			in := diffNode(itemSchemaAt(t, i), ba[i], aa[i])
			if in.Status != Unchanged {
				allSame = false
			}
			n.Items = append(n.Items, in)
		}
		for i := common; i < len(aa); i++ {
			allSame = false
			n.Items = append(n.Items, &DiffNode{Status: Added, Schema: itemSchemaAt(t, i), New: aa[i]})
		}
		for i := common; i < len(ba); i++ {
			allSame = false
			n.Items = append(n.Items, &DiffNode{Status: Removed, Schema: itemSchemaAt(t, i), Old: ba[i]})
		}
		n.Status = containerStatus(allSame, before, after)
		return n
	default: // *Primitive, *Reference
		return diffLeaf(f, before, after)
	}
}

func diffLeaf(f FieldSchema, before, after any) *DiffNode {
	n := &DiffNode{Schema: f, Old: before, New: after}
	if !ValueEqual(before, after) {
		n.Status = Changed
	}
	return n
}

func containerStatus(allSame bool, before, after any) Status {
	switch {
	case allSame:
		return Unchanged
	case before == nil:
		return Added
	case after == nil:
		return Removed
	default:
		return Changed
	}
}

// HasChanges reports whether anything below n differs.
func (n *DiffNode) HasChanges() bool { return n != nil && n.Status != Unchanged }

// Field returns the child diff for an object member.
func (n *DiffNode) Field(name string) (*DiffNode, bool) {
	if n == nil {
		return nil, false
	}
	for _, fd := range n.Fields {
		if fd.Name == name {
			return fd.Node, true
		}
	}
	return nil, false
}

// At walks the diff tree along p.
func (n *DiffNode) At(p Path) (*DiffNode, bool) {
	cur := n
	for _, seg := range p {
		if seg.IsIndex() {
			if cur == nil || seg.Idx() < 0 || seg.Idx() >= len(cur.Items) {
				return nil, false
			}
			cur = cur.Items[seg.Idx()]
			continue
		}
		next, ok := cur.Field(seg.Name())
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Change is one flattened row of a diff for audit display.
type Change struct {
	Path   Path
	Status Status
	Old    any
	New    any
}

// Changes lists every changed leaf and every added or removed array item,
// in schema and index order. Paths are relative to n.
func (n *DiffNode) Changes() []Change {
	var out []Change
	n.collect(nil, &out)
	return out
}

func (n *DiffNode) collect(p Path, out *[]Change) {
	if n == nil || n.Status == Unchanged {
		return
	}
	if len(n.Fields) == 0 && len(n.Items) == 0 {
		*out = append(*out, Change{Path: p, Status: n.Status, Old: n.Old, New: n.New})
		return
	}
	for _, fd := range n.Fields {
		fd.Node.collect(p.Field(fd.Name), out)
	}
	for i, it := range n.Items {
		it.collect(p.Index(i), out)
	}
}

type diffWire struct {
	Status Status       `json:"status"`
	Kind   string       `json:"kind,omitempty"`
	Fields *orderedDiff `json:"fields,omitempty"`
	Items  []*DiffNode  `json:"items,omitempty"`
}

// changeWire keeps old/new even when they are zero values ("" -> "x").
type changeWire struct {
	Status Status `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Old    any    `json:"old"`
	New    any    `json:"new"`
}

// MarshalJSON emits {"status":..., "fields":{...}} with object members in
// schema order. Old/New are emitted only on leaves and added/removed items.
func (n *DiffNode) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	kind := ""
	if n.Schema != nil {
		kind = n.Schema.Kind().String()
	}
	if n.Status != Unchanged && len(n.Fields) == 0 && len(n.Items) == 0 {
		return json.Marshal(changeWire{Status: n.Status, Kind: kind, Old: n.Old, New: n.New})
	}
	w := diffWire{Status: n.Status, Kind: kind, Items: n.Items}
	if len(n.Fields) > 0 {
		fs := orderedDiff(n.Fields)
		w.Fields = &fs
	}
	return json.Marshal(w)
}

type orderedDiff []FieldDiff

func (o orderedDiff) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, fd := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fd.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(fd.Node)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
