package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rhino1998/unify/pkg/kinds"
)

// Interner builds and interns types. Structurally identical composites are
// returned as the same pointer, so reference equality is type equality.
type Interner struct {
	registry *Registry

	next       uint64
	generics   []*Generic
	composites map[string]*Composite

	any *Composite
}

func NewInterner(registry *Registry) *Interner {
	in := &Interner{
		registry:   registry,
		composites: make(map[string]*Composite),
	}

	in.any = in.Make(registry.Any)

	return in
}

func (in *Interner) Registry() *Registry {
	return in.registry
}

// Any returns the type of the any class, the most permissive type.
func (in *Interner) Any() Type {
	return in.any
}

func (in *Interner) Absent() Type {
	return Absent
}

// Len returns the number of distinct composites built so far.
func (in *Interner) Len() int {
	return len(in.composites)
}

func (in *Interner) nextID() uint64 {
	in.next++
	return in.next
}

// Generic returns the placeholder for generic position pos.
func (in *Interner) Generic(pos int) *Generic {
	if pos < 0 {
		panic(fmt.Sprintf("bug: negative generic position %d", pos))
	}

	for len(in.generics) <= pos {
		in.generics = append(in.generics, &Generic{Pos: len(in.generics), id: in.nextID()})
	}

	return in.generics[pos]
}

// Generics returns the placeholders for positions 0..n-1.
func (in *Interner) Generics(n int) []Type {
	out := make([]Type, n)
	for i := range n {
		out[i] = in.Generic(i)
	}

	return out
}

func checkArity(cls *Class, subtypes []Type) {
	switch cls.kind {
	case kinds.Function:
		if len(subtypes) == 0 {
			panic("bug: function type without a return slot")
		}
	default:
		if len(subtypes) != cls.generics {
			panic(fmt.Sprintf("bug: class %s takes %d subtypes, got %d", cls, cls.generics, len(subtypes)))
		}
	}
}

// Build interns cls applied to subtypes. The subtypes slice is copied, never
// retained. The unresolved flag is computed from the subtypes; any other
// flags are kept.
func (in *Interner) Build(cls *Class, subtypes []Type, flags Flags) Type {
	if cls == nil {
		panic("bug: build with nil class")
	}

	checkArity(cls, subtypes)

	flags &^= FlagUnresolved

	var key strings.Builder
	key.WriteString(strconv.Itoa(int(cls.id)))
	key.WriteByte('/')
	key.WriteString(strconv.Itoa(int(flags)))
	for _, sub := range subtypes {
		if sub == nil {
			panic(fmt.Sprintf("bug: nil subtype building %s", cls))
		}

		if sub.Unresolved() {
			flags |= FlagUnresolved
		}

		key.WriteByte(':')
		key.WriteString(strconv.FormatUint(sub.serial(), 10))
	}

	if t, ok := in.composites[key.String()]; ok {
		return t
	}

	t := &Composite{
		class:    cls,
		subtypes: slices.Clone(subtypes),
		flags:    flags,
		id:       in.nextID(),
	}
	in.composites[key.String()] = t

	return t
}

// Make is Build without flags, returning the composite directly.
func (in *Interner) Make(cls *Class, subtypes ...Type) *Composite {
	return in.Build(cls, subtypes, 0).(*Composite)
}

// Function builds function(params... => ret). Pass Absent for no return.
func (in *Interner) Function(ret Type, params ...Type) *Composite {
	return in.Build(in.registry.Function, append([]Type{ret}, params...), 0).(*Composite)
}

// VarargsFunction is Function with its last parameter marked as varargs.
func (in *Interner) VarargsFunction(ret Type, params ...Type) *Composite {
	if len(params) == 0 {
		panic("bug: varargs function without parameters")
	}

	return in.Build(in.registry.Function, append([]Type{ret}, params...), FlagVarargs).(*Composite)
}

func (in *Interner) OptArg(t Type) *Composite {
	return in.Make(in.registry.OptArg, t)
}

// DeclareVariant declares a variant of enum whose payload positions fill the
// enum generics listed in payload.
func (in *Interner) DeclareVariant(enum *Class, name string, payload ...int) (*Class, error) {
	if enum == nil || !enum.enum {
		return nil, fmt.Errorf("variant %q must belong to an enum, got %v", name, enum)
	}

	for _, pos := range payload {
		if pos < 0 || pos >= enum.generics {
			return nil, fmt.Errorf("variant %q payload uses generic %d, but enum %s has %d", name, pos, enum, enum.generics)
		}
	}

	cls, err := in.registry.newVariant(name, enum, len(payload))
	if err != nil {
		return nil, err
	}

	params := make([]Type, len(payload))
	for i, pos := range payload {
		params[i] = in.Generic(pos)
	}

	cls.shape = in.Function(in.Make(cls, params...), params...)

	return cls, nil
}
