// Package skemaedit edits and diffs nested records described by a recursive
// field schema.
//
// - Paths ("a.b[2].c") address any position of a record (ParsePath/FormatPath)
// - Resolve finds the FieldSchema that describes a path
// - Get/Set read and copy-on-write records; only the spine to the target is cloned
// - AppendItem/RemoveItem/MoveItem edit lists as whole-array replacements
// - Diff/DiffField compare two versions schema-first, arrays by index
// - Edit/Apply/Replay and Session make an editing pass replayable
// - Submission packages the outcome for an external Sink
//
// Design policy:
//   - Keep the public API in the root package; loaders live in schemadoc/ and
//     recordio/, submission sinks in sink/, and the CLI under cmd/skemaedit.
//   - Records are map[string]any / []any / leaves. Every mutator returns a new
//     record and leaves its input untouched.
//   - Errors are Issues carrying a JSON Pointer, a code and a sentinel cause.
//
// Typical usage:
//
//	cat, _ := schemadoc.LoadFile("schemas.yaml", schemadoc.Options{})
//	fields := cat.MustEntity("bill")
//	rec, _ := recordio.DecodeJSON(data, recordio.Options{})
//
//	next, err := skemaedit.Set(rec, skemaedit.MustParsePath("sponsors[0].name"), "Alice")
//	d := skemaedit.Diff(fields, rec, next)
//	for _, c := range d.Changes() { fmt.Println(c.Path, c.Status) }
package skemaedit
