package skemaedit

// Kind tags the FieldSchema variants.
type Kind int

const (
	KindPrimitive Kind = iota
	KindReference
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// PrimitiveType refines KindPrimitive. The core treats every primitive type
// alike except when synthesizing defaults.
type PrimitiveType string

const (
	TypeText     PrimitiveType = "text"
	TypeTextArea PrimitiveType = "textarea"
	TypeNumber   PrimitiveType = "number"
	TypeBoolean  PrimitiveType = "boolean"
	TypeDate     PrimitiveType = "date"
	TypeURL      PrimitiveType = "url"
	TypeEmail    PrimitiveType = "email"
)

// Known reports whether t is one of the declared primitive types.
func (t PrimitiveType) Known() bool {
	switch t {
	case TypeText, TypeTextArea, TypeNumber, TypeBoolean, TypeDate, TypeURL, TypeEmail:
		return true
	}
	return false
}

// Meta holds the attributes shared by every FieldSchema variant.
type Meta struct {
	Name     string
	Label    string
	Required bool // advisory only; never enforced by mutators
}

// FieldSchema is the closed union of field shapes: *Primitive, *Reference,
// *Object and *Array. Walkers switch over these four types exhaustively.
type FieldSchema interface {
	Kind() Kind
	Meta() Meta
	sealed()
}

// Primitive is a leaf field (text, number, boolean, date, url, email...).
// As an array item with an empty name it stands for a bare kind tag.
type Primitive struct {
	M    Meta
	Type PrimitiveType
}

// Reference is a foreign-entity picker. Its value is an opaque identifier
// string; Entity names the referenced entity type for lookup providers.
type Reference struct {
	M      Meta
	Entity string
}

// Object is a nested record with ordered children.
type Object struct {
	M      Meta
	Fields []FieldSchema
	byName map[string]int
}

// Array is a homogeneous list described by a single item schema.
type Array struct {
	M    Meta
	Item FieldSchema
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Reference) Kind() Kind { return KindReference }
func (*Object) Kind() Kind    { return KindObject }
func (*Array) Kind() Kind     { return KindArray }

func (p *Primitive) Meta() Meta { return p.M }
func (r *Reference) Meta() Meta { return r.M }
func (o *Object) Meta() Meta    { return o.M }
func (a *Array) Meta() Meta     { return a.M }

func (*Primitive) sealed() {}
func (*Reference) sealed() {}
func (*Object) sealed()    {}
func (*Array) sealed()     {}

// Field looks up a direct child by name.
func (o *Object) Field(name string) (FieldSchema, bool) {
	if o.byName == nil {
		for _, f := range o.Fields {
			if f.Meta().Name == name {
				return f, true
			}
		}
		return nil, false
	}
	i, ok := o.byName[name]
	if !ok {
		return nil, false
	}
	return o.Fields[i], true
}

// ---- constructors ----

// Prim builds a primitive field of the given type.
func Prim(name string, t PrimitiveType) *Primitive {
	return &Primitive{M: Meta{Name: name}, Type: t}
}

func Text(name string) *Primitive     { return Prim(name, TypeText) }
func TextArea(name string) *Primitive { return Prim(name, TypeTextArea) }
func Number(name string) *Primitive   { return Prim(name, TypeNumber) }
func Bool(name string) *Primitive     { return Prim(name, TypeBoolean) }
func Date(name string) *Primitive     { return Prim(name, TypeDate) }
func URL(name string) *Primitive      { return Prim(name, TypeURL) }
func Email(name string) *Primitive    { return Prim(name, TypeEmail) }

// Ref builds a reference field pointing at entities of the given type.
func Ref(name, entity string) *Reference {
	return &Reference{M: Meta{Name: name}, Entity: entity}
}

// ObjectOf builds an object field. Children keep their declared order; a
// later child with a duplicate name shadows nothing and is unreachable by
// name, so schema sources must keep names unique.
func ObjectOf(name string, fields ...FieldSchema) *Object {
	o := &Object{M: Meta{Name: name}, Fields: append([]FieldSchema(nil), fields...)}
	o.byName = make(map[string]int, len(o.Fields))
	for i, f := range o.Fields {
		if _, dup := o.byName[f.Meta().Name]; !dup {
			o.byName[f.Meta().Name] = i
		}
	}
	return o
}

// ArrayOf builds an array field. Pass a nameless item (e.g. Text("")) for a
// homogeneous primitive array.
func ArrayOf(name string, item FieldSchema) *Array {
	return &Array{M: Meta{Name: name}, Item: item}
}

// Root wraps top-level fields into the synthetic root object used by the
// resolver and the differ.
func Root(fields ...FieldSchema) *Object { return ObjectOf("", fields...) }

// WithLabel sets the display label.
func (p *Primitive) WithLabel(l string) *Primitive { p.M.Label = l; return p }
func (r *Reference) WithLabel(l string) *Reference { r.M.Label = l; return r }
func (o *Object) WithLabel(l string) *Object       { o.M.Label = l; return o }
func (a *Array) WithLabel(l string) *Array         { a.M.Label = l; return a }

// AsRequired marks the field as required (advisory).
func (p *Primitive) AsRequired() *Primitive { p.M.Required = true; return p }
func (r *Reference) AsRequired() *Reference { r.M.Required = true; return r }
func (o *Object) AsRequired() *Object       { o.M.Required = true; return o }
func (a *Array) AsRequired() *Array         { a.M.Required = true; return a }

// renamed returns a shallow copy of f carrying a different name. Used to
// synthesize transient schemas for array slots.
func renamed(f FieldSchema, name string) FieldSchema {
	switch t := f.(type) {
	case *Primitive:
		c := *t
		c.M.Name = name
		return &c
	case *Reference:
		c := *t
		c.M.Name = name
		return &c
	case *Object:
		c := *t
		c.M.Name = name
		return &c
	case *Array:
		c := *t
		c.M.Name = name
		return &c
	default:
		return f
	}
}
