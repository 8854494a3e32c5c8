package schemadoc

import (
	"fmt"

	skemaedit "github.com/reoring/skemaedit"
)

type builder struct {
	opts Options
	diag *simpleDiag
	iss  skemaedit.Issues
}

var knownAttrs = map[string]struct{}{
	"name": {}, "label": {}, "type": {}, "required": {},
	"fields": {}, "items": {}, "entity": {},
	"description": {}, "placeholder": {}, "options": {},
}

// typeAliases maps document type names onto primitive types.
var typeAliases = map[string]skemaedit.PrimitiveType{
	"text":     skemaedit.TypeText,
	"string":   skemaedit.TypeText,
	"textarea": skemaedit.TypeTextArea,
	"number":   skemaedit.TypeNumber,
	"integer":  skemaedit.TypeNumber,
	"boolean":  skemaedit.TypeBoolean,
	"bool":     skemaedit.TypeBoolean,
	"date":     skemaedit.TypeDate,
	"url":      skemaedit.TypeURL,
	"email":    skemaedit.TypeEmail,
}

func (b *builder) fail(p skemaedit.Path, msg string) {
	b.iss = skemaedit.AppendIssues(b.iss, skemaedit.Issue{Path: p.Pointer(), Code: skemaedit.CodeInvalidSchema, Message: msg})
}

func (b *builder) unknown(p skemaedit.Path, key string) {
	switch b.opts.Unknown {
	case UnknownStrict:
		b.fail(p, fmt.Sprintf("unknown attribute %q", key))
	case UnknownWarn:
		b.diag.warnf("%s: unknown attribute %q ignored", p.Pointer(), key)
	}
}

func (b *builder) fieldList(list []any, p skemaedit.Path, depth int) []skemaedit.FieldSchema {
	out := make([]skemaedit.FieldSchema, 0, len(list))
	seen := map[string]int{}
	for i, raw := range list {
		ip := p.Index(i)
		f := b.field(raw, ip, depth, true)
		if f == nil {
			continue
		}
		name := f.Meta().Name
		if prev, dup := seen[name]; dup {
			b.fail(ip.Field("name"), fmt.Sprintf("duplicate field name %q (first at index %d)", name, prev))
			continue
		}
		seen[name] = i
		out = append(out, f)
	}
	return out
}

// field builds one definition. needName is false for array items, which may
// be anonymous.
func (b *builder) field(raw any, p skemaedit.Path, depth int, needName bool) skemaedit.FieldSchema {
	if depth >= b.opts.maxDepth() {
		b.fail(p, "field definitions nested too deeply")
		return nil
	}
	if tag, ok := raw.(string); ok && !needName {
		return b.kindTag(tag, p)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		b.fail(p, "expected a field definition object")
		return nil
	}
	for k := range m {
		if _, ok := knownAttrs[k]; !ok {
			b.unknown(p.Field(k), k)
		}
	}
	name, _ := m["name"].(string)
	if needName && name == "" {
		b.fail(p.Field("name"), "field name is required")
		return nil
	}
	label, _ := m["label"].(string)
	required, _ := m["required"].(bool)
	meta := skemaedit.Meta{Name: name, Label: label, Required: required}

	typ, _ := m["type"].(string)
	switch typ {
	case "object":
		list, ok := m["fields"].([]any)
		if !ok {
			b.fail(p.Field("fields"), "object fields must declare a fields list")
			return nil
		}
		o := skemaedit.ObjectOf(name, b.fieldList(list, p.Field("fields"), depth+1)...)
		o.M = meta
		return o
	case "array":
		rawItem, ok := m["items"]
		if !ok {
			b.fail(p.Field("items"), "array fields must declare items")
			return nil
		}
		item := b.field(rawItem, p.Field("items"), depth+1, false)
		if item == nil {
			return nil
		}
		a := skemaedit.ArrayOf(name, item)
		a.M = meta
		return a
	case "reference", "ref":
		entity, _ := m["entity"].(string)
		if entity == "" {
			b.fail(p.Field("entity"), "reference fields must name an entity")
			return nil
		}
		r := skemaedit.Ref(name, entity)
		r.M = meta
		return r
	case "":
		b.fail(p.Field("type"), "field type is required")
		return nil
	default:
		pt, ok := typeAliases[typ]
		if !ok {
			b.fail(p.Field("type"), fmt.Sprintf("unknown field type %q", typ))
			return nil
		}
		prim := skemaedit.Prim(name, pt)
		prim.M = meta
		return prim
	}
}

func (b *builder) kindTag(tag string, p skemaedit.Path) skemaedit.FieldSchema {
	pt, ok := typeAliases[tag]
	if !ok {
		b.fail(p, fmt.Sprintf("unknown item kind %q", tag))
		return nil
	}
	return skemaedit.Prim("", pt)
}
