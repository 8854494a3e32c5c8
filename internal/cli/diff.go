package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/sink"
)

// changeRow is the flattened form printed by diff --changes.
type changeRow struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Old    any    `json:"old"`
	New    any    `json:"new"`
}

func newDiffCmd(a *app) *cobra.Command {
	var (
		changes bool
		path    string
	)
	cmd := &cobra.Command{
		Use:   "diff BEFORE AFTER",
		Short: "Compare two records along the schema",
		Long: `Compare two records field by field along the entity schema. Arrays are
compared by position. The default output is the full diff tree; --changes
prints one row per changed leaf instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.fields()
			if err != nil {
				return err
			}
			before, err := a.readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			after, err := a.readRecord(cmd, args[1])
			if err != nil {
				return err
			}
			d := skemaedit.Diff(fields, before, after)
			if path != "" {
				p, err := skemaedit.ParsePath(path)
				if err != nil {
					return err
				}
				sub, ok := d.At(p)
				if !ok {
					a.log.Info("path not in diff", "path", path)
					return a.write(cmd, nil)
				}
				d = sub
			}
			a.log.Debug("diff computed", "changed", d.HasChanges())
			if !changes {
				return a.write(cmd, d)
			}
			rows := []changeRow{}
			for _, c := range d.Changes() {
				rows = append(rows, changeRow{Path: c.Path.String(), Status: c.Status.String(), Old: c.Old, New: c.New})
			}
			return a.write(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&changes, "changes", false, "Print changed leaves only")
	cmd.Flags().StringVar(&path, "path", "", "Print the diff below this path only")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		meta skemaedit.SubmissionMeta
		path string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "submit BEFORE AFTER",
		Short: "Package the edit from BEFORE to AFTER as a submission",
		Long: `Build a submission from two versions of a record and append it as one JSON
line to --out (or the configured submit_log, or stdout). With --path the
submission covers that single field. Submissions without any change are
dropped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.fields()
			if err != nil {
				return err
			}
			before, err := a.readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			after, err := a.readRecord(cmd, args[1])
			if err != nil {
				return err
			}
			if meta.EntityKind == "" {
				meta.EntityKind = a.cfg.Entity
			}

			s := skemaedit.NewSession(fields, before)
			s.Current = after
			var sub *skemaedit.Submission
			if path != "" {
				if sub, err = s.FieldSubmission(path, meta); err != nil {
					return err
				}
			} else {
				sub = s.Submission(meta)
			}

			if out == "" {
				out = a.cfg.SubmitLog
			}
			w, closeFn, err := openLog(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			defer closeFn()

			target := sink.Validating(sink.SkipUnchanged(sink.NewJSONLines(w)))
			if err := target.Submit(cmd.Context(), sub); err != nil {
				return err
			}
			if !sub.Diff.HasChanges() {
				a.log.Warn("nothing to submit", slog.String("target", meta.TargetEntityID))
				return nil
			}
			a.log.Info("submission recorded",
				slog.String("id", sub.ID),
				slog.String("target", sub.TargetEntityID),
				slog.String("scope", sub.Scope.String()),
				slog.Int("changes", len(sub.Diff.Changes())))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&meta.TargetEntityID, "target", "", "Identifier of the edited entity")
	f.StringVar(&meta.EntityKind, "kind", "", "Entity kind (defaults to --entity)")
	f.StringVar(&meta.Reason, "reason", "", "Why the edit was made")
	f.StringVar(&meta.EvidenceReference, "evidence", "", "Source backing the edit")
	f.StringVar(&path, "path", "", "Submit only the field at this path")
	f.StringVar(&out, "out", "", "Append submissions to this file")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

// openLog opens name for appending, or returns stdout when name is empty.
func openLog(stdout io.Writer, name string) (io.Writer, func(), error) {
	if name == "" {
		return stdout, func() {}, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
