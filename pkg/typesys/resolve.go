package typesys

import (
	"fmt"
	"log/slog"

	"github.com/rhino1998/unify/pkg/types"
)

// resolver substitutes the bindings of the window [base, base+size) into a
// type. Rebuilt subtypes are staged on the stack from top upwards.
type resolver struct {
	logger *slog.Logger
	stack  *Stack
	maker  TypeMaker

	base int
	size int
	top  int
}

func (r *resolver) resolve(t types.Type) types.Type {
	switch t := t.(type) {
	case nil:
		panic("bug: nil type in resolve")
	case *types.Generic:
		if t.Pos >= r.size {
			panic(fmt.Sprintf("bug: generic %s outside frame of %d", t, r.size))
		}

		slot := r.base + t.Pos
		bound := r.stack.slots[slot]
		if bound == nil {
			// Never constrained. Fall back to any and keep it, so that
			// later reads agree and callers can see what happened.
			bound = r.maker.Any()
			r.stack.slots[slot] = bound

			r.logger.Debug("unbound generic resolved to fallback",
				slog.String("generic", t.String()),
				slog.String("fallback", bound.String()),
			)
		}

		return bound
	case *types.Composite:
		if !t.Unresolved() {
			return t
		}

		n := t.Len()
		start := r.top
		r.top += n
		r.stack.ensureCapacity(r.top)

		for i, sub := range t.Subtypes() {
			resolved := r.resolve(sub)
			r.stack.slots[start+i] = resolved
		}

		ret := r.maker.Build(t.Class(), r.stack.slots[start:start+n], t.Flags()&^types.FlagUnresolved)
		r.top = start

		return ret
	default:
		return t
	}
}
