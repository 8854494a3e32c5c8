package skemaedit

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: either an object member name or an array
// index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Field returns a member-access segment.
func Field(name string) Segment { return Segment{name: name} }

// Index returns an array-index segment. i must be non-negative.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses an array slot.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the member name; empty for index segments.
func (s Segment) Name() string { return s.name }

// Idx returns the array index; 0 for member segments.
func (s Segment) Idx() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.name
}

// Path addresses a position inside a nested record, root-first.
type Path []Segment

// ParsePath converts "a.b[2].c" into segments. Bracket bodies become index
// segments; everything between dots is a member name, even when numeric.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, malformed(s, "empty path")
	}
	var out Path
	i := 0
	// expectName is true at the start and right after a '.'.
	expectName := true
	for i < len(s) {
		switch c := s[i]; {
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, malformed(s, "unterminated bracket")
			}
			body := s[i+1 : i+end]
			n, err := strconv.Atoi(body)
			if err != nil || n < 0 || body == "" || body[0] == '+' || body[0] == '-' {
				return nil, malformed(s, "bad index "+strconv.Quote(body))
			}
			if expectName && i > 0 {
				// "a.[0]"
				return nil, malformed(s, "empty segment")
			}
			out = append(out, Index(n))
			i += end + 1
			expectName = false
			if i < len(s) && s[i] != '.' && s[i] != '[' {
				return nil, malformed(s, "unexpected character after ']'")
			}
		case c == '.':
			if expectName {
				return nil, malformed(s, "empty segment")
			}
			expectName = true
			i++
			if i == len(s) {
				return nil, malformed(s, "trailing '.'")
			}
		case c == ']':
			return nil, malformed(s, "unbalanced ']'")
		default:
			if !expectName {
				return nil, malformed(s, "missing '.' before name")
			}
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != ']' {
				j++
			}
			out = append(out, Field(s[i:j]))
			i = j
			expectName = false
		}
	}
	return out, nil
}

// MustParsePath is like ParsePath but panics on error. Intended for
// package-level path constants and tests.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func malformed(s, why string) error {
	return Issues{{
		Path:    "/",
		Code:    CodeMalformedPath,
		Message: why + " in " + strconv.Quote(s),
		Cause:   ErrMalformedPath,
		Params:  map[string]any{"path": s, "reason": why},
	}}
}

// FormatPath renders segments in canonical form. It is the inverse of
// ParsePath for member names that contain no '.', '[' or ']'.
func FormatPath(p Path) string {
	b := &strings.Builder{}
	for i, s := range p {
		if s.isIndex {
			b.WriteString(s.String())
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}

func (p Path) String() string { return FormatPath(p) }

// Append returns a new path with segs added. The receiver is never mutated.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Field is shorthand for p.Append(Field(name)).
func (p Path) Field(name string) Path { return p.Append(Field(name)) }

// Index is shorthand for p.Append(Index(i)).
func (p Path) Index(i int) Path { return p.Append(Index(i)) }

// Equal reports segment-wise equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether pre is a (non-strict) prefix of p.
func (p Path) HasPrefix(pre Path) bool {
	return len(pre) <= len(p) && p[:len(pre)].Equal(pre)
}

// Parent drops the last segment. The parent of a one-segment path is the
// empty root path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

// Last returns the final segment; ok is false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Pointer renders p as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
