// Package recordio decodes and encodes records in the generic shape the
// editor works on: map[string]any, []any and leaves, with numbers kept as
// json.Number so they round-trip without precision loss.
package recordio

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	skemaedit "github.com/reoring/skemaedit"
	"github.com/reoring/skemaedit/internal/scan"
)

// Severity expresses how a detected problem is handled.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Options bundles decoding options.
type Options struct {
	OnDuplicateKey Severity // JSON only; YAML rejects duplicates itself
	MaxDepth       int      // 0 disables the limit
	// OnWarning receives issues downgraded to warnings. nil drops them.
	OnWarning func(skemaedit.Issue)
}

// Format names a record encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks a format from a file name (".yaml"/".yml" → YAML).
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Decode dispatches on f.
func Decode(data []byte, f Format, opt Options) (any, error) {
	if f == YAML {
		return DecodeYAML(data, opt)
	}
	return DecodeJSON(data, opt)
}

// DecodeJSON decodes a JSON document. Duplicate keys and depth are checked
// by a token scan before decoding.
func DecodeJSON(data []byte, opt Options) (any, error) {
	iss := scan.Check(data, scan.Options{Duplicates: opt.OnDuplicateKey != Ignore, MaxDepth: opt.MaxDepth})
	var errs skemaedit.Issues
	for _, si := range iss {
		it := skemaedit.Issue{Path: si.Path, Code: si.Code, Message: si.Message}
		if si.Code == skemaedit.CodeDuplicateKey && opt.OnDuplicateKey == Warn {
			if opt.OnWarning != nil {
				opt.OnWarning(it)
			}
			continue
		}
		errs = skemaedit.AppendIssues(errs, it)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, skemaedit.Issues{{Path: "/", Code: skemaedit.CodeParseError, Message: err.Error(), Cause: err}}
	}
	if off := dec.InputOffset(); dec.More() || (off >= 0 && off < int64(len(data)) && len(bytes.TrimSpace(data[off:])) > 0) {
		return nil, skemaedit.Issues{{Path: "/", Code: skemaedit.CodeParseError, Message: "unexpected data after the top-level value"}}
	}
	return v, nil
}

// DecodeYAML decodes a single YAML document into the generic shape.
func DecodeYAML(data []byte, opt Options) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, skemaedit.Issues{{Path: "/", Code: skemaedit.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return Normalize(v, opt.MaxDepth)
}

// Normalize converts YAML- or hand-built values into the generic record
// shape: map[any]any keys become strings, Go numbers become json.Number,
// typed slices become []any and times become RFC 3339 strings (plain dates
// when the time is midnight UTC). maxDepth 0 disables the depth check.
func Normalize(v any, maxDepth int) (any, error) {
	return normalize(v, nil, 0, maxDepth)
}

func normalize(v any, p skemaedit.Path, depth, maxDepth int) (any, error) {
	switch t := v.(type) {
	case map[string]any, map[any]any, []any, []string, []map[string]any:
		if maxDepth > 0 && depth+1 > maxDepth {
			return nil, skemaedit.Issues{{Path: p.Pointer(), Code: skemaedit.CodeTooDeep, Message: "depth exceeds " + strconv.Itoa(maxDepth)}}
		}
	case nil:
		return nil, nil
	default:
		return normalizeLeaf(t), nil
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalize(vv, p.Field(k), depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks := fmt.Sprint(k)
			nv, err := normalize(vv, p.Field(ks), depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		return normalizeList(len(t), func(i int) any { return t[i] }, p, depth, maxDepth)
	case []string:
		return normalizeList(len(t), func(i int) any { return t[i] }, p, depth, maxDepth)
	case []map[string]any:
		return normalizeList(len(t), func(i int) any { return t[i] }, p, depth, maxDepth)
	}
	return v, nil
}

func normalizeList(n int, at func(int) any, p skemaedit.Path, depth, maxDepth int) (any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		nv, err := normalize(at(i), p.Index(i), depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}

func normalizeLeaf(v any) any {
	switch n := v.(type) {
	case int:
		return json.Number(strconv.Itoa(n))
	case int64:
		return json.Number(strconv.FormatInt(n, 10))
	case uint64:
		return json.Number(strconv.FormatUint(n, 10))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return n
		}
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64))
	case time.Time:
		if n.Equal(n.Truncate(24*time.Hour)) && n.Location() == time.UTC {
			return n.Format(time.DateOnly)
		}
		return n.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// EncodeJSON renders v as indented JSON when indent is set.
func EncodeJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// EncodeYAML renders v as YAML. json.Number leaves are written as plain
// numeric scalars with their exact text.
func EncodeYAML(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlValue(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yamlValue copies the containers of v, replacing json.Number leaves with
// numeric scalar nodes; yaml.v3 would quote them as strings otherwise.
func yamlValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = yamlValue(vv)
		}
		return out
	case json.Number:
		s := t.String()
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
		}
		return s
	default:
		return v
	}
}

// Encode dispatches on f.
func Encode(v any, f Format) ([]byte, error) {
	if f == YAML {
		return EncodeYAML(v)
	}
	return EncodeJSON(v, true)
}

// ParseLiteral interprets a command-line value: valid JSON (numbers, true,
// null, quoted strings, objects, arrays) is decoded; anything else is taken
// as a bare string.
func ParseLiteral(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}
