package types

import (
	"fmt"
	"strings"

	"github.com/rhino1998/unify/pkg/kinds"
)

// Type is one of *Generic, *Composite or Absent. Types are interned by an
// Interner, so identical concrete types share one pointer.
type Type interface {
	String() string

	// Unresolved reports whether a generic placeholder occurs anywhere in
	// the type.
	Unresolved() bool

	serial() uint64
}

type Flags uint8

const (
	FlagUnresolved Flags = 1 << iota
	FlagVarargs
)

// Absent is the explicit "no value" type, e.g. the return type of a function
// that returns nothing.
var Absent Type = absent{}

type absent struct{}

func (absent) String() string { return "<absent>" }
func (absent) Unresolved() bool { return false }
func (absent) serial() uint64 { return 0 }

func IsAbsent(t Type) bool {
	return t == Absent
}

// Generic is a placeholder for the generic parameter at Pos in the active
// binding frame.
type Generic struct {
	Pos int

	id uint64
}

func (g *Generic) Unresolved() bool { return true }
func (g *Generic) serial() uint64 { return g.id }

func (g *Generic) String() string {
	if g.Pos < 26 {
		return string(rune('A' + g.Pos))
	}

	return fmt.Sprintf("G%d", g.Pos)
}

// GenericPosition parses the name (*Generic).String produces.
func GenericPosition(name string) (int, bool) {
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return int(name[0] - 'A'), true
	}

	var pos int
	_, err := fmt.Sscanf(name, "G%d", &pos)
	if err != nil || pos < 0 || fmt.Sprintf("G%d", pos) != name {
		return 0, false
	}

	return pos, true
}

// Composite is a class applied to an ordered list of subtypes. Function
// composites keep their return type at subtype 0 and parameters after it.
type Composite struct {
	class    *Class
	subtypes []Type
	flags    Flags

	id uint64
}

func (t *Composite) Class() *Class { return t.class }
func (t *Composite) Flags() Flags { return t.flags }
func (t *Composite) Len() int { return len(t.subtypes) }
func (t *Composite) Subtype(i int) Type { return t.subtypes[i] }
func (t *Composite) serial() uint64 { return t.id }

// Subtypes returns the composite's subtypes. The slice is shared and must not
// be modified.
func (t *Composite) Subtypes() []Type { return t.subtypes }

func (t *Composite) Unresolved() bool {
	return t.flags&FlagUnresolved != 0
}

func (t *Composite) IsFunction() bool {
	return t.class.kind == kinds.Function
}

func (t *Composite) IsOptArg() bool {
	return t.class.kind == kinds.OptArg
}

func (t *Composite) Return() Type {
	if !t.IsFunction() {
		panic(fmt.Sprintf("bug: return type of non-function %s", t))
	}

	return t.subtypes[0]
}

func (t *Composite) Params() []Type {
	if !t.IsFunction() {
		panic(fmt.Sprintf("bug: parameters of non-function %s", t))
	}

	return t.subtypes[1:]
}

func (t *Composite) String() string {
	switch t.class.kind {
	case kinds.Function:
		params := make([]string, 0, len(t.subtypes)-1)
		for i, param := range t.subtypes[1:] {
			if t.flags&FlagVarargs != 0 && i == len(t.subtypes)-2 {
				params = append(params, param.String()+"...")
			} else {
				params = append(params, param.String())
			}
		}

		if IsAbsent(t.subtypes[0]) {
			return fmt.Sprintf("function(%s)", strings.Join(params, ", "))
		}

		if len(params) == 0 {
			return fmt.Sprintf("function( => %s)", t.subtypes[0])
		}

		return fmt.Sprintf("function(%s => %s)", strings.Join(params, ", "), t.subtypes[0])
	case kinds.OptArg:
		return fmt.Sprintf("*%s", t.subtypes[0])
	}

	if len(t.subtypes) == 0 {
		return t.class.name
	}

	subs := make([]string, 0, len(t.subtypes))
	for _, sub := range t.subtypes {
		subs = append(subs, sub.String())
	}

	return fmt.Sprintf("%s[%s]", t.class.name, strings.Join(subs, ", "))
}
