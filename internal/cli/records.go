package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/recordio"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get RECORD PATH",
		Short: "Print the value at PATH (null when absent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			v, ok, err := skemaedit.GetString(rec, args[1])
			if err != nil {
				return err
			}
			if !ok {
				a.log.Info("path absent", "path", args[1])
			}
			return a.write(cmd, v)
		},
	}
}

// editCmd wires the common shape of the record-mutating commands: load the
// record into a session, run fn, then print or write back the result.
func editCmd(a *app, use, short string, nargs int, fn func(s *skemaedit.Session, args []string) error) *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.optionalFields()
			if err != nil {
				return err
			}
			rec, err := a.readRecord(cmd, args[0])
			if err != nil {
				return err
			}
			s := skemaedit.NewSession(fields, rec)
			if err := fn(s, args[1:]); err != nil {
				return err
			}
			a.log.Debug("edits applied", "count", len(s.History), "dirty", fields != nil && s.Dirty())
			if inPlace && args[0] != "-" {
				return writeBack(args[0], s.Current)
			}
			return a.write(cmd, s.Current)
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "Write the result back to RECORD instead of stdout")
	return cmd
}

func writeBack(name string, rec any) error {
	out, err := recordio.Encode(rec, recordio.FormatFor(name))
	if err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return os.WriteFile(name, out, 0o644)
}

func newSetCmd(a *app) *cobra.Command {
	cmd := editCmd(a, "set RECORD PATH VALUE", "Store VALUE (JSON literal or bare string) at PATH", 3,
		func(s *skemaedit.Session, args []string) error {
			return s.Set(args[0], recordio.ParseLiteral(args[1]))
		})
	cmd.Long = `Store VALUE at PATH, creating missing objects and arrays along the way.
VALUE is decoded as JSON when it parses (42, true, null, "quoted", {...});
anything else is stored as a plain string.`
	return cmd
}

func newUnsetCmd(a *app) *cobra.Command {
	return editCmd(a, "unset RECORD PATH", "Remove the object member at PATH", 2,
		func(s *skemaedit.Session, args []string) error {
			return s.Delete(args[0])
		})
}

func newAppendCmd(a *app) *cobra.Command {
	return editCmd(a, "append RECORD PATH", "Append a default item to the array at PATH (needs --schema)", 2,
		func(s *skemaedit.Session, args []string) error {
			return s.Append(args[0])
		})
}

func newRemoveCmd(a *app) *cobra.Command {
	return editCmd(a, "remove RECORD PATH INDEX", "Remove element INDEX from the array at PATH", 3,
		func(s *skemaedit.Session, args []string) error {
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index %q: %w", args[1], err)
			}
			return s.Remove(args[0], i)
		})
}

func newMoveCmd(a *app) *cobra.Command {
	return editCmd(a, "move RECORD PATH FROM TO", "Move element FROM to position TO in the array at PATH", 4,
		func(s *skemaedit.Session, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("from %q: %w", args[1], err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("to %q: %w", args[2], err)
			}
			return s.Move(args[0], from, to)
		})
}

// editOp is one entry of an edit script.
type editOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	Index int    `json:"index,omitempty"`
	From  int    `json:"from,omitempty"`
	To    int    `json:"to,omitempty"`
}

func newApplyCmd(a *app) *cobra.Command {
	cmd := editCmd(a, "apply RECORD SCRIPT", "Apply a JSON edit script to RECORD", 2,
		func(s *skemaedit.Session, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var ops []editOp
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			if err := dec.Decode(&ops); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for i, op := range ops {
				if err := applyOp(s, op); err != nil {
					return fmt.Errorf("%s: op #%d (%s %s): %w", args[0], i, op.Op, op.Path, err)
				}
			}
			return nil
		})
	cmd.Long = `Apply a list of edits in order. Each entry is one of

  {"op": "set",    "path": "a.b[0]", "value": 42}
  {"op": "unset",  "path": "a.b"}
  {"op": "append", "path": "sponsors"}
  {"op": "remove", "path": "sponsors", "index": 1}
  {"op": "move",   "path": "sponsors", "from": 2, "to": 0}

The first failing edit aborts the whole script.`
	return cmd
}

func applyOp(s *skemaedit.Session, op editOp) error {
	switch op.Op {
	case "set":
		return s.Set(op.Path, op.Value)
	case "unset":
		return s.Delete(op.Path)
	case "append":
		return s.Append(op.Path)
	case "remove":
		return s.Remove(op.Path, op.Index)
	case "move":
		return s.Move(op.Path, op.From, op.To)
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}
