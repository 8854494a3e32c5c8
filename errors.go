package skemaedit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/skemaedit/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMalformedPath     = "malformed_path"
	CodeIndexOutOfRange   = "index_out_of_range"
	CodeInvalidType       = "invalid_type"
	CodeNotFound          = "not_found"
	CodeRequired          = "required"
	CodeParseError        = "parse_error"
	CodeDuplicateKey      = "duplicate_key"
	CodeTooDeep           = "too_deep"
	CodeInvalidSchema     = "invalid_schema"
	CodeInvalidSubmission = "invalid_submission"
)

// Sentinel causes carried by Issues. Use errors.Is on any error returned by
// this package.
var (
	ErrMalformedPath   = errors.New("skemaedit: malformed path")
	ErrIndexOutOfRange = errors.New("skemaedit: index out of range")
	ErrTypeMismatch    = errors.New("skemaedit: value is not a container")
	ErrNotFound        = errors.New("skemaedit: path does not match schema")
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /sponsors/2/name).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"index":4, "len":2})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. index_out_of_range at /sponsors/4
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is(err, ErrIndexOutOfRange) works.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issueAt builds a single-issue error at p with a translated message.
func issueAt(p Path, code string, cause error, kv ...any) Issues {
	params := map[string]any{}
	data := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		params[k] = kv[i+1]
		data[k] = fmt.Sprint(kv[i+1])
	}
	return Issues{{Path: p.Pointer(), Code: code, Message: i18n.T(code, data), Cause: cause, Params: params}}
}
