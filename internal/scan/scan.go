// Package scan walks JSON tokens to enforce limits that a plain decode
// cannot see: duplicate object keys and nesting depth.
package scan

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// Options configures Check.
type Options struct {
	Duplicates bool // report duplicate object keys
	MaxDepth   int  // 0 disables the depth limit
	MaxIssues  int  // <= 0 means unlimited
}

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	idx          int
}

// Check scans data and reports duplicate keys and depth violations. A syntax
// error stops the scan and is reported as a parse_error issue.
func Check(data []byte, opt Options) []SimpleIssue {
	if !opt.Duplicates && opt.MaxDepth <= 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var issues []SimpleIssue
	var stack []frame
	full := false
	add := func(i SimpleIssue) {
		if full {
			return
		}
		issues = append(issues, i)
		if opt.MaxIssues > 0 && len(issues) >= opt.MaxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
			full = true
		}
	}

	for !full {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			add(SimpleIssue{Code: "parse_error", Path: pointer(stack), Message: err.Error()})
			break
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				if opt.MaxDepth > 0 && len(stack)+1 > opt.MaxDepth {
					add(SimpleIssue{Code: "too_deep", Path: pointer(stack), Message: "depth exceeds " + strconv.Itoa(opt.MaxDepth)})
					return issues
				}
				f := frame{object: v == '{'}
				if f.object {
					f.keys = map[string]struct{}{}
					f.expectingKey = true
				}
				stack = append(stack, f)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone(stack)
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				top.key = v
				top.expectingKey = false
				if _, dup := top.keys[v]; dup && opt.Duplicates {
					add(SimpleIssue{Code: "duplicate_key", Path: pointer(stack), Message: "key '" + v + "' duplicated"})
				}
				top.keys[v] = struct{}{}
				continue
			}
			valueDone(stack)
		default:
			valueDone(stack)
		}
	}
	return issues
}

// valueDone advances the enclosing container after a complete value.
func valueDone(stack []frame) {
	if len(stack) == 0 {
		return
	}
	top := &stack[len(stack)-1]
	if top.object {
		top.expectingKey = true
		return
	}
	top.idx++
}

func pointer(stack []frame) string {
	if len(stack) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, f := range stack {
		b.WriteByte('/')
		if f.object {
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(f.key, "~", "~0"), "/", "~1"))
			continue
		}
		b.WriteString(strconv.Itoa(f.idx))
	}
	return b.String()
}
