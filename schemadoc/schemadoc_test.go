package schemadoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/recordio"
)

const billDoc = `
entities:
  bill:
    - name: title
      label: Title
      type: text
      required: true
    - name: introducedOn
      type: date
    - name: sponsors
      type: array
      items:
        type: object
        fields:
          - {name: name, type: text, required: true}
          - {name: type, type: string}
    - name: tags
      type: array
      items: text
    - name: committee
      type: reference
      entity: committee
    - name: votingResults
      type: object
      fields:
        - name: house
          type: object
          fields:
            - {name: yeas, type: integer}
            - name: records
              type: array
              items:
                type: object
                fields:
                  - {name: member, type: ref, entity: politician}
                  - {name: vote, type: text}
  politician:
    - {name: name, type: text}
    - {name: email, type: email}
`

func TestParse_YAML(t *testing.T) {
	cat, diag, err := Parse([]byte(billDoc), recordio.YAML, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	if diff := cmp.Diff([]string{"bill", "politician"}, cat.Kinds()); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}

	fields := cat.MustEntity("bill")
	var names []string
	for _, f := range fields {
		names = append(names, f.Meta().Name)
	}
	if diff := cmp.Diff([]string{"title", "introducedOn", "sponsors", "tags", "committee", "votingResults"}, names); diff != "" {
		t.Fatalf("field order (-want +got):\n%s", diff)
	}

	title := fields[0].(*skemaedit.Primitive)
	if title.M != (skemaedit.Meta{Name: "title", Label: "Title", Required: true}) || title.Type != skemaedit.TypeText {
		t.Fatalf("title = %+v", title)
	}

	vote, ok := skemaedit.Resolve(fields, skemaedit.MustParsePath("votingResults.house.records[2].vote"))
	if !ok || vote.Kind() != skemaedit.KindPrimitive {
		t.Fatalf("vote = %v, %v", vote, ok)
	}
	member, _ := skemaedit.Resolve(fields, skemaedit.MustParsePath("votingResults.house.records[0].member"))
	if ref, ok := member.(*skemaedit.Reference); !ok || ref.Entity != "politician" {
		t.Fatalf("member = %#v", member)
	}
	yeas, _ := skemaedit.Resolve(fields, skemaedit.MustParsePath("votingResults.house.yeas"))
	if yeas.(*skemaedit.Primitive).Type != skemaedit.TypeNumber {
		t.Fatalf("integer alias not mapped: %#v", yeas)
	}
	tag, _ := skemaedit.Resolve(fields, skemaedit.MustParsePath("tags[1]"))
	if tag.Meta().Name != "1" || tag.(*skemaedit.Primitive).Type != skemaedit.TypeText {
		t.Fatalf("tag item = %#v", tag)
	}
	if sponsorType, _ := skemaedit.Resolve(fields, skemaedit.MustParsePath("sponsors[0].type")); sponsorType.(*skemaedit.Primitive).Type != skemaedit.TypeText {
		t.Fatalf("string alias not mapped")
	}
}

func TestParse_JSONRootList(t *testing.T) {
	cat, _, err := Parse([]byte(`[{"name":"title","type":"text"},{"name":"n","type":"number"}]`), recordio.JSON, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fields, ok := cat.Entity("")
	if !ok || len(fields) != 2 {
		t.Fatalf("fields = %v, %v", fields, ok)
	}
	if _, ok := cat.Entity("bill"); ok {
		t.Fatalf("unexpected entity")
	}
}

func TestParse_DuplicateJSONKeysRejected(t *testing.T) {
	_, _, err := Parse([]byte(`[{"name":"a","name":"b","type":"text"}]`), recordio.JSON, Options{})
	iss, ok := skemaedit.AsIssues(err)
	if !ok || iss[0].Code != skemaedit.CodeDuplicateKey || iss[0].Path != "/0/name" {
		t.Fatalf("want duplicate_key at /0/name, got %v", err)
	}
}

func TestParse_InvalidDefinitions(t *testing.T) {
	doc := `
entities:
  bill:
    - {name: title, type: text}
    - {name: title, type: text}
    - {type: text}
    - {name: n}
    - {name: c, type: colour}
    - {name: o, type: object}
    - {name: a, type: array}
    - {name: r, type: reference}
    - {name: l, type: array, items: wat}
    - just a string
`
	_, _, err := Parse([]byte(doc), recordio.YAML, Options{})
	iss, ok := skemaedit.AsIssues(err)
	if !ok {
		t.Fatalf("want Issues, got %v", err)
	}
	var got []string
	for _, it := range iss {
		if it.Code != skemaedit.CodeInvalidSchema {
			t.Fatalf("code = %s", it.Code)
		}
		got = append(got, it.Path)
	}
	want := []string{
		"/entities/bill/1/name",
		"/entities/bill/2/name",
		"/entities/bill/3/type",
		"/entities/bill/4/type",
		"/entities/bill/5/fields",
		"/entities/bill/6/items",
		"/entities/bill/7/entity",
		"/entities/bill/8/items",
		"/entities/bill/9",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issue paths (-want +got):\n%s", diff)
	}
}

func TestParse_UnknownAttributes(t *testing.T) {
	doc := "version: 2\nentities:\n  bill:\n    - {name: title, type: text, colour: red}\n"

	_, diag, err := Parse([]byte(doc), recordio.YAML, Options{})
	if err != nil {
		t.Fatalf("warn mode: %v", err)
	}
	ws := diag.Warnings()
	if len(ws) != 2 || !strings.Contains(strings.Join(ws, "\n"), `/entities/bill/0/colour: unknown attribute "colour"`) {
		t.Fatalf("warnings = %v", ws)
	}

	_, diag, err = Parse([]byte(doc), recordio.YAML, Options{Unknown: UnknownIgnore})
	if err != nil || diag.HasWarnings() {
		t.Fatalf("ignore mode: %v, %v", err, diag.Warnings())
	}

	_, _, err = Parse([]byte(doc), recordio.YAML, Options{Unknown: UnknownStrict})
	iss, ok := skemaedit.AsIssues(err)
	if !ok || len(iss) != 2 || iss[0].Path != "/entities/bill/0/colour" || iss[1].Path != "/version" {
		t.Fatalf("strict mode: %v", err)
	}
}

func TestParse_DocumentShape(t *testing.T) {
	for name, doc := range map[string]string{
		"scalar":           "42\n",
		"missing entities": "kinds: {}\n",
		"entity not list":  "entities:\n  bill: {name: x}\n",
	} {
		if _, _, err := Parse([]byte(doc), recordio.YAML, Options{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParse_MaxDepth(t *testing.T) {
	doc := `[{name: a, type: object, fields: [{name: b, type: object, fields: [{name: c, type: text}]}]}]`
	if _, _, err := Parse([]byte(doc), recordio.YAML, Options{MaxDepth: 2}); err == nil {
		t.Fatalf("expected depth error")
	}
	if _, _, err := Parse([]byte(doc), recordio.YAML, Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3: %v", err)
	}
}

func TestImport_DecodedDocument(t *testing.T) {
	doc := []any{
		map[string]any{"name": "title", "type": "text"},
		map[string]any{"name": "tags", "type": "array", "items": "url"},
	}
	cat, _, err := Import(doc, Options{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	f, ok := skemaedit.Resolve(cat.MustEntity(""), skemaedit.MustParsePath("tags[0]"))
	if !ok || f.(*skemaedit.Primitive).Type != skemaedit.TypeURL {
		t.Fatalf("tags item = %#v", f)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.yml")
	if err := os.WriteFile(path, []byte(billDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, _, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := cat.Entity("politician"); !ok {
		t.Fatalf("politician missing")
	}
	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), Options{}); err == nil {
		t.Fatalf("missing file: expected error")
	}
}

func TestMustEntity_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	(&Catalog{}).MustEntity("bill")
}
