// Package schemadoc loads field schemas from YAML or JSON documents.
//
// A document maps entity kinds to ordered field lists:
//
//	entities:
//	  bill:
//	    - name: title
//	      label: Title
//	      type: text
//	      required: true
//	    - name: sponsors
//	      type: array
//	      items:
//	        type: object
//	        fields:
//	          - {name: name, type: text}
//	          - {name: type, type: text}
//	    - name: tags
//	      type: array
//	      items: text
//	    - name: committee
//	      type: reference
//	      entity: committee
//
// A bare string under items is a primitive kind tag. A document whose root
// is a list is loaded as the single entity kind "".
package schemadoc

import (
	"fmt"
	"os"
	"sort"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/recordio"
)

// Catalog holds the field lists of every entity kind in a document.
type Catalog struct {
	entities map[string][]skemaedit.FieldSchema
}

// Entity returns the fields of kind.
func (c *Catalog) Entity(kind string) ([]skemaedit.FieldSchema, bool) {
	if c == nil {
		return nil, false
	}
	fs, ok := c.entities[kind]
	return fs, ok
}

// MustEntity is like Entity but panics when kind is unknown.
func (c *Catalog) MustEntity(kind string) []skemaedit.FieldSchema {
	fs, ok := c.Entity(kind)
	if !ok {
		panic("schemadoc: unknown entity kind " + kind)
	}
	return fs
}

// Kinds lists the entity kinds in sorted order.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.entities))
	for k := range c.entities {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadFile reads path and imports it; the extension picks YAML or JSON.
func LoadFile(path string, opts Options) (*Catalog, Diag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("schemadoc: %w", err)
	}
	return Parse(data, recordio.FormatFor(path), opts)
}

// Parse imports a schema document.
func Parse(data []byte, format recordio.Format, opts Options) (*Catalog, Diag, error) {
	d := &simpleDiag{}
	doc, err := recordio.Decode(data, format, recordio.Options{OnDuplicateKey: recordio.Error})
	if err != nil {
		return nil, d, err
	}
	return importDoc(doc, opts, d)
}

// Import builds a catalog from an already decoded document (for example a
// record produced by recordio).
func Import(doc any, opts Options) (*Catalog, Diag, error) {
	return importDoc(doc, opts, &simpleDiag{})
}

func importDoc(doc any, opts Options, d *simpleDiag) (*Catalog, Diag, error) {
	b := &builder{opts: opts, diag: d}
	cat := &Catalog{entities: map[string][]skemaedit.FieldSchema{}}
	switch t := doc.(type) {
	case []any:
		cat.entities[""] = b.fieldList(t, skemaedit.Path{}, 0)
	case map[string]any:
		ents, ok := t["entities"].(map[string]any)
		if !ok {
			return nil, d, skemaedit.Issues{{Path: "/entities", Code: skemaedit.CodeInvalidSchema, Message: "expected a map of entity kinds"}}
		}
		for k := range t {
			if k != "entities" {
				b.unknown(skemaedit.Path{skemaedit.Field(k)}, k)
			}
		}
		for kind, raw := range ents {
			p := skemaedit.Path{skemaedit.Field("entities"), skemaedit.Field(kind)}
			list, ok := raw.([]any)
			if !ok {
				b.fail(p, "expected a list of fields")
				continue
			}
			cat.entities[kind] = b.fieldList(list, p, 0)
		}
	default:
		return nil, d, skemaedit.Issues{{Path: "/", Code: skemaedit.CodeInvalidSchema, Message: "document must be a list of fields or have an entities map"}}
	}
	if len(b.iss) > 0 {
		sort.SliceStable(b.iss, func(i, j int) bool { return b.iss[i].Path < b.iss[j].Path })
		return nil, d, b.iss
	}
	return cat, d, nil
}
