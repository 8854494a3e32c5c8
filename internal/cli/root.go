// Package cli implements the skemaedit command line: path resolution,
// record reads and edits, diffs and edit submissions over JSON or YAML
// files.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/i18n"
	"github.com/reoring/skemaedit/internal/config"
	"github.com/reoring/skemaedit/recordio"
	"github.com/reoring/skemaedit/schemadoc"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfgPath string
	cfg     *config.Configuration
	log     *slog.Logger

	// flag overrides; empty means "use configuration"
	schema   string
	entity   string
	output   string
	logLevel string
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "skemaedit",
		Short: "Schema-driven record editing and diffing",
		Long: `skemaedit reads, edits and diffs nested JSON/YAML records described by a
field schema document, and packages reviewed edits as submissions.`,
		Example: `  # What schema describes a path?
  skemaedit resolve -s schemas.yaml -e bill votingResults.house.records[2].vote

  # Edit a record (prints the new record)
  skemaedit set bill.json sponsors[0].name '"Alice"'
  skemaedit append -s schemas.yaml -e bill bill.json sponsors

  # Review and submit
  skemaedit diff -s schemas.yaml -e bill before.json after.json --changes
  skemaedit submit -s schemas.yaml -e bill before.json after.json --target bill-42 --reason "typo"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", ".skemaedit.json", "Path to config file")
	pf.StringVarP(&a.schema, "schema", "s", "", "Schema document (YAML or JSON)")
	pf.StringVarP(&a.entity, "entity", "e", "", "Entity kind inside the schema document")
	pf.StringVarP(&a.output, "output", "o", "", "Output format: json or yaml")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newResolveCmd(a),
		newFieldsCmd(a),
		newJSONSchemaCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newUnsetCmd(a),
		newAppendCmd(a),
		newRemoveCmd(a),
		newMoveCmd(a),
		newApplyCmd(a),
		newDiffCmd(a),
		newSubmitCmd(a),
	)
	return root
}

// Execute runs the CLI against os.Args.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.schema != "" {
		cfg.SchemaFile = a.schema
	}
	if a.entity != "" {
		cfg.Entity = a.entity
	}
	switch a.output {
	case "":
	case "json", "yaml":
		cfg.Output = a.output
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	i18n.SetLanguage(cfg.Lang)
	a.log.Debug("configuration loaded",
		slog.String("config", a.cfgPath),
		slog.String("schema", cfg.SchemaFile),
		slog.String("entity", cfg.Entity),
		slog.String("output", cfg.Output))
	return nil
}

// fields loads the schema document and picks the configured entity.
func (a *app) fields() ([]skemaedit.FieldSchema, error) {
	if a.cfg.SchemaFile == "" {
		return nil, fmt.Errorf("no schema document: pass --schema or set %sSCHEMA", config.EnvPrefix)
	}
	cat, diag, err := schemadoc.LoadFile(a.cfg.SchemaFile, schemadoc.Options{})
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		a.log.Warn("schema document", slog.String("warning", w))
	}
	fs, ok := cat.Entity(a.cfg.Entity)
	if !ok {
		return nil, fmt.Errorf("entity %q not in %s (have: %s)", a.cfg.Entity, a.cfg.SchemaFile, strings.Join(cat.Kinds(), ", "))
	}
	a.log.Debug("schema loaded", slog.String("entity", a.cfg.Entity), slog.Int("fields", len(fs)))
	return fs, nil
}

// optionalFields is fields when a schema document is configured and nil
// otherwise; schema-free edits still work on plain paths.
func (a *app) optionalFields() ([]skemaedit.FieldSchema, error) {
	if a.cfg.SchemaFile == "" {
		return nil, nil
	}
	return a.fields()
}

// readRecord decodes a record file; "-" reads stdin as JSON.
func (a *app) readRecord(cmd *cobra.Command, name string) (any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	opt := a.cfg.RecordOptions(func(path, msg string) {
		a.log.Warn("record input", slog.String("file", name), slog.String("path", path), slog.String("issue", msg))
	})
	rec, err := recordio.Decode(data, recordio.FormatFor(name), opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rec, nil
}

// write renders v in the configured output format. YAML output goes
// through the JSON form first so custom JSON marshalers shape both.
func (a *app) write(cmd *cobra.Command, v any) error {
	if a.cfg.RecordFormat() == recordio.YAML {
		raw, err := recordio.EncodeJSON(v, false)
		if err != nil {
			return err
		}
		if v, err = recordio.DecodeJSON(raw, recordio.Options{OnDuplicateKey: recordio.Ignore}); err != nil {
			return err
		}
	}
	out, err := recordio.Encode(v, a.cfg.RecordFormat())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
