package schemadoc

import "fmt"

// UnknownBehavior configures how unrecognized attributes in a field
// definition are treated.
type UnknownBehavior int

const (
	UnknownWarn UnknownBehavior = iota
	UnknownIgnore
	UnknownStrict
)

// Options controls how schema documents are imported.
type Options struct {
	Unknown  UnknownBehavior
	MaxDepth int // nesting limit for field definitions; 0 means 64
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return 64
	}
	return o.MaxDepth
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
