package skemaedit

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func contactFields() []FieldSchema {
	return []FieldSchema{
		ObjectOf("contactInfo",
			Email("email"),
			Text("phone"),
			URL("website"),
		),
	}
}

func TestDiff_ChangedLeafAmongUnchangedSiblings(t *testing.T) {
	before := map[string]any{"contactInfo": map[string]any{"email": "a@x.com"}}
	after := map[string]any{"contactInfo": map[string]any{"email": "b@x.com"}}

	d := Diff(contactFields(), before, after)
	ci, ok := d.Field("contactInfo")
	if !ok || ci.Status != Changed {
		t.Fatalf("contactInfo = %+v", ci)
	}
	email, _ := ci.Field("email")
	if email.Status != Changed || email.Old != "a@x.com" || email.New != "b@x.com" {
		t.Fatalf("email = %+v", email)
	}
	for _, name := range []string{"phone", "website"} {
		n, ok := ci.Field(name)
		if !ok || n.Status != Unchanged {
			t.Fatalf("%s = %+v, want unchanged", name, n)
		}
	}
	var names []string
	for _, fd := range ci.Fields {
		names = append(names, fd.Name)
	}
	if diff := cmp.Diff([]string{"email", "phone", "website"}, names); diff != "" {
		t.Fatalf("field order (-want +got):\n%s", diff)
	}
}

func TestDiff_Reflexive(t *testing.T) {
	rec := map[string]any{
		"title":    "Clean Water Act",
		"sponsors": []any{map[string]any{"name": "Alice", "type": "Primary"}},
		"tags":     []any{"water", "env"},
		"votingResults": map[string]any{
			"house": map[string]any{"yeas": json.Number("210"), "records": []any{map[string]any{"vote": "yea"}}},
		},
	}
	d := Diff(billFields(), rec, deepCopy(rec))
	if d.HasChanges() {
		t.Fatalf("self diff reports changes: %v", d.Changes())
	}
	if n := len(d.Changes()); n != 0 {
		t.Fatalf("Changes() = %d entries", n)
	}
}

func TestDiff_LocalizedToEditedPath(t *testing.T) {
	rec := map[string]any{
		"title":    "Clean Water Act",
		"sponsors": []any{map[string]any{"name": "Alice", "type": "Primary"}, map[string]any{"name": "Bob", "type": "Co"}},
		"contactInfo": map[string]any{
			"email": "a@x.com",
		},
	}
	target := MustParsePath("sponsors[1].type")
	edited := mustSet(t, rec, target.String(), "Primary")

	changes := Diff(billFields(), rec, edited).Changes()
	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want exactly one", changes)
	}
	if !changes[0].Path.Equal(target) || changes[0].Old != "Co" || changes[0].New != "Primary" {
		t.Fatalf("change = %+v", changes[0])
	}
}

func TestDiff_ArrayAddedAndRemoved(t *testing.T) {
	fields := []FieldSchema{ArrayOf("tags", Text(""))}

	d := Diff(fields, map[string]any{"tags": []any{"a"}}, map[string]any{"tags": []any{"a", "b", "c"}})
	tags, _ := d.Field("tags")
	if tags.Status != Changed || len(tags.Items) != 3 {
		t.Fatalf("tags = %+v", tags)
	}
	want := []Status{Unchanged, Added, Added}
	for i, it := range tags.Items {
		if it.Status != want[i] {
			t.Fatalf("item %d = %v, want %v", i, it.Status, want[i])
		}
	}
	if tags.Items[2].New != "c" || tags.Items[2].Schema.Meta().Name != "2" {
		t.Fatalf("added item = %+v", tags.Items[2])
	}

	d = Diff(fields, map[string]any{"tags": []any{"a", "b"}}, map[string]any{"tags": []any{"a"}})
	tags, _ = d.Field("tags")
	if tags.Items[1].Status != Removed || tags.Items[1].Old != "b" {
		t.Fatalf("removed item = %+v", tags.Items[1])
	}
}

func TestDiff_ArrayIsPositional(t *testing.T) {
	fields := []FieldSchema{ArrayOf("tags", Text(""))}
	// inserting at the front shifts every position
	d := Diff(fields, map[string]any{"tags": []any{"b", "c"}}, map[string]any{"tags": []any{"a", "b", "c"}})
	var got []string
	for _, c := range d.Changes() {
		got = append(got, c.Path.String()+"="+c.Status.String())
	}
	want := []string{"tags[0]=changed", "tags[1]=changed", "tags[2]=added"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_AbsentContainers(t *testing.T) {
	fields := contactFields()

	d := Diff(fields, map[string]any{}, map[string]any{"contactInfo": map[string]any{"email": "a@x.com"}})
	ci, _ := d.Field("contactInfo")
	if ci.Status != Added {
		t.Fatalf("contactInfo = %v, want added", ci.Status)
	}
	email, _ := ci.Field("email")
	if email.Status != Changed || email.Old != nil {
		t.Fatalf("email = %+v", email)
	}

	d = Diff(fields, map[string]any{"contactInfo": map[string]any{"email": "a@x.com"}}, nil)
	ci, _ = d.Field("contactInfo")
	if ci.Status != Removed {
		t.Fatalf("contactInfo = %v, want removed", ci.Status)
	}

	// an empty object carries no child values, so it equals an absent one
	d = Diff(fields, map[string]any{}, map[string]any{"contactInfo": map[string]any{}})
	if d.HasChanges() {
		t.Fatalf("empty vs absent: %+v", d.Changes())
	}
}

func TestDiff_NumbersCompareByValue(t *testing.T) {
	fields := []FieldSchema{Number("yeas")}
	d := Diff(fields, map[string]any{"yeas": json.Number("210")}, map[string]any{"yeas": float64(210)})
	if d.HasChanges() {
		t.Fatalf("210 vs 210.0 reported as change")
	}
	d = Diff(fields, map[string]any{"yeas": json.Number("210")}, map[string]any{"yeas": 211})
	if !d.HasChanges() {
		t.Fatalf("210 vs 211 not reported")
	}
}

func TestDiff_ShapeMismatchIsLeafChange(t *testing.T) {
	d := Diff(contactFields(), map[string]any{"contactInfo": "n/a"}, map[string]any{"contactInfo": map[string]any{"email": "a@x.com"}})
	ci, _ := d.Field("contactInfo")
	if ci.Status != Changed || len(ci.Fields) != 0 || ci.Old != "n/a" {
		t.Fatalf("contactInfo = %+v", ci)
	}
}

func TestDiff_IgnoresKeysOutsideSchema(t *testing.T) {
	d := Diff(contactFields(), map[string]any{"internalNote": "a"}, map[string]any{"internalNote": "b"})
	if d.HasChanges() {
		t.Fatalf("unknown key diffed: %+v", d.Changes())
	}
}

func TestDiffField(t *testing.T) {
	d := DiffField(Text("title"), "A", "B")
	title, ok := d.Field("title")
	if !ok || title.Status != Changed {
		t.Fatalf("title = %+v", title)
	}
	if DiffField(Text("title"), "A", "A").HasChanges() {
		t.Fatalf("equal values reported as change")
	}
	if d := DiffField(Text("title"), nil, "A"); d.Status != Added {
		t.Fatalf("nil -> value: status %v", d.Status)
	}
}

func TestDiffNode_At(t *testing.T) {
	before := map[string]any{"sponsors": []any{map[string]any{"name": "A"}}}
	after := map[string]any{"sponsors": []any{map[string]any{"name": "B"}}}
	d := Diff(billFields(), before, after)

	n, ok := d.At(MustParsePath("sponsors[0].name"))
	if !ok || n.Status != Changed || n.New != "B" {
		t.Fatalf("At = %+v, %v", n, ok)
	}
	if _, ok := d.At(MustParsePath("sponsors[4]")); ok {
		t.Fatalf("At out of range: want false")
	}
	if _, ok := d.At(Path{Field("sponsors"), Index(-1)}); ok {
		t.Fatalf("At negative index: want false")
	}
	if _, ok := d.At(MustParsePath("nope")); ok {
		t.Fatalf("At unknown: want false")
	}
}

func TestDiffNode_MarshalJSON(t *testing.T) {
	before := map[string]any{"contactInfo": map[string]any{"email": "a@x.com"}}
	after := map[string]any{"contactInfo": map[string]any{"email": "b@x.com"}}
	b, err := json.Marshal(Diff(contactFields(), before, after))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{
		`"status":"changed"`,
		`"email":{"status":"changed","kind":"primitive","old":"a@x.com","new":"b@x.com"}`,
		`"phone":{"status":"unchanged","kind":"primitive"}`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("%s\nmissing %s", s, want)
		}
	}
	if strings.Index(s, `"email"`) > strings.Index(s, `"phone"`) || strings.Index(s, `"phone"`) > strings.Index(s, `"website"`) {
		t.Fatalf("fields not in schema order: %s", s)
	}
}

func TestStatus_String(t *testing.T) {
	got := []string{Unchanged.String(), Changed.String(), Added.String(), Removed.String(), Status(9).String()}
	if diff := cmp.Diff([]string{"unchanged", "changed", "added", "removed", "unknown"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
