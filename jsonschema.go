package skemaedit

import js "github.com/reoring/skemaedit/jsonschema"

// ToJSONSchema projects top-level fields into a JSON Schema object. Required
// flags are exported as-is; the core itself never enforces them.
func ToJSONSchema(fields []FieldSchema) *js.Schema {
	return projectSchema(Root(fields...))
}

func projectSchema(f FieldSchema) *js.Schema {
	m := f.Meta()
	switch t := f.(type) {
	case *Primitive:
		s := &js.Schema{Title: m.Label}
		switch t.Type {
		case TypeNumber:
			s.Type = "number"
		case TypeBoolean:
			s.Type = "boolean"
		case TypeDate:
			s.Type, s.Format = "string", "date"
		case TypeURL:
			s.Type, s.Format = "string", "uri"
		case TypeEmail:
			s.Type, s.Format = "string", "email"
		default:
			s.Type = "string"
		}
		return s
	case *Reference:
		return &js.Schema{Type: "string", Title: m.Label, XReference: t.Entity}
	case *Object:
		s := &js.Schema{Type: "object", Title: m.Label, Properties: map[string]*js.Schema{}}
		for _, c := range t.Fields {
			cm := c.Meta()
			s.Properties[cm.Name] = projectSchema(c)
			s.PropertyOrder = append(s.PropertyOrder, cm.Name)
			if cm.Required {
				s.Required = append(s.Required, cm.Name)
			}
		}
		return s
	case *Array:
		s := &js.Schema{Type: "array", Title: m.Label}
		if t.Item != nil {
			s.Items = projectSchema(t.Item)
		}
		return s
	default:
		return &js.Schema{}
	}
}
