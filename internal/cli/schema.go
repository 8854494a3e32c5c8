package cli

import (
	"github.com/spf13/cobra"

	skemaedit "github.com/reoring/skemaedit"
)

// fieldInfo is the printable summary of a FieldSchema.
type fieldInfo struct {
	Found    bool   `json:"found" yaml:"found"`
	Path     string `json:"path" yaml:"path"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Entity   string `json:"entity,omitempty" yaml:"entity,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Present  *bool  `json:"present,omitempty" yaml:"present,omitempty"`
}

func describe(p skemaedit.Path, f skemaedit.FieldSchema) fieldInfo {
	m := f.Meta()
	info := fieldInfo{Found: true, Path: p.String(), Name: m.Name, Label: m.Label, Kind: f.Kind().String(), Required: m.Required}
	switch t := f.(type) {
	case *skemaedit.Primitive:
		info.Type = string(t.Type)
	case *skemaedit.Reference:
		info.Entity = t.Entity
	case *skemaedit.Object, *skemaedit.Array:
	}
	return info
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Show the field schema that describes PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.fields()
			if err != nil {
				return err
			}
			p, err := skemaedit.ParsePath(args[0])
			if err != nil {
				return err
			}
			f, ok := skemaedit.Resolve(fs, p)
			if !ok {
				a.log.Info("path not described by schema", "path", args[0])
				return a.write(cmd, fieldInfo{Path: p.String()})
			}
			return a.write(cmd, describe(p, f))
		},
	}
}

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields [RECORD]",
		Short: "List every schema position, expanded over RECORD's arrays",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.fields()
			if err != nil {
				return err
			}
			var rec any
			if len(args) == 1 {
				if rec, err = a.readRecord(cmd, args[0]); err != nil {
					return err
				}
			}
			var out []fieldInfo
			skemaedit.Walk(fs, rec, func(pos skemaedit.Position) bool {
				info := describe(pos.Path, pos.Schema)
				if len(args) == 1 {
					present := pos.Present
					info.Present = &present
				}
				out = append(out, info)
				return true
			})
			if len(args) == 1 {
				for _, p := range skemaedit.MissingRequired(fs, rec) {
					a.log.Warn("required field is empty", "path", p.String())
				}
			}
			return a.write(cmd, out)
		},
	}
}

func newJSONSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Export the entity schema as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := a.fields()
			if err != nil {
				return err
			}
			return a.write(cmd, skemaedit.ToJSONSchema(fs))
		},
	}
}
