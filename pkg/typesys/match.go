package typesys

import (
	"fmt"

	"github.com/rhino1998/unify/pkg/kinds"
	"github.com/rhino1998/unify/pkg/types"
)

// matcher compares types against one binding window of the stack. Generics on
// the left side read and write the slots [base, base+size).
type matcher struct {
	stack *Stack
	base  int
	size  int

	strictArity bool
}

func (m *matcher) slot(g *types.Generic) int {
	if g.Pos >= m.size {
		panic(fmt.Sprintf("bug: generic %s outside frame of %d", g, m.size))
	}

	return m.base + g.Pos
}

func (m *matcher) match(left, right types.Type, rule Rule) bool {
	if left == nil || right == nil {
		panic("bug: nil type in match")
	}

	if types.IsAbsent(left) || types.IsAbsent(right) {
		return left == right
	}

	switch left := left.(type) {
	case *types.Generic:
		return m.matchGeneric(left, right, rule)
	case *types.Composite:
		right, ok := right.(*types.Composite)
		if !ok {
			return false
		}

		lc, rc := left.Class(), right.Class()
		switch {
		case lc.IsEnum() && rc.IsVariant() && rc.Parent() == lc:
			return m.matchEnum(left, right, rule)
		case lc.Kind() == kinds.Function && rc.Kind() == kinds.Function:
			return m.matchFunction(left, right, rule)
		default:
			return m.matchClass(left, right, rule)
		}
	default:
		panic(fmt.Sprintf("bug: unhandled type %T", left))
	}
}

func (m *matcher) matchGeneric(left *types.Generic, right types.Type, rule Rule) bool {
	if rule.Mode == Exact {
		return types.Type(left) == right
	}

	slot := m.slot(left)
	bound := m.stack.slots[slot]

	switch {
	case bound == nil:
		m.stack.slots[slot] = right
		return true
	case bound == right:
		return true
	case rule.Variance != Invariant:
		// The first binding stands; later uses only have to agree with it.
		return m.match(bound, right, rule.exact())
	default:
		return false
	}
}

// matchEnum matches a variant against its enum by lining up each payload
// subtype with the enum generic it fills.
func (m *matcher) matchEnum(left, right *types.Composite, rule Rule) bool {
	rule = rule.reset()

	for i, pos := range right.Class().VariantPositions() {
		if !m.match(left.Subtype(pos), right.Subtype(i), rule) {
			return false
		}
	}

	return true
}

func (m *matcher) matchFunction(left, right *types.Composite, rule Rule) bool {
	rule = rule.reset()

	if !m.match(left.Return(), right.Return(), rule.with(Covariant)) {
		return false
	}

	if left.Len() > right.Len() {
		return false
	}

	rule = rule.with(Contravariant)
	for i := 1; i < left.Len(); i++ {
		lp, rp := left.Subtype(i), right.Subtype(i)

		if ro, ok := rp.(*types.Composite); ok && ro.IsOptArg() && !isOptArg(lp) {
			rp = ro.Subtype(0)
		}

		if !m.match(lp, rp, rule) {
			return false
		}
	}

	if m.strictArity {
		for i := left.Len(); i < right.Len(); i++ {
			if !isOptArg(right.Subtype(i)) && !isVarargsTail(right, i) {
				return false
			}
		}
	}

	return true
}

func isOptArg(t types.Type) bool {
	c, ok := t.(*types.Composite)
	return ok && c.IsOptArg()
}

func isVarargsTail(fn *types.Composite, i int) bool {
	return fn.Flags()&types.FlagVarargs != 0 && i == fn.Len()-1
}

func (m *matcher) matchClass(left, right *types.Composite, rule Rule) bool {
	lc, rc := left.Class(), right.Class()

	var ok bool
	var n int
	switch rule.Variance {
	case Covariant:
		ok = types.IsAncestorOrEqual(lc, rc)
		n = left.Len()
	case Contravariant:
		if lc == rc {
			ok = left.Len() == right.Len()
		} else {
			ok = types.IsAncestorOrEqual(rc, lc)
		}
		n = right.Len()
	default:
		ok = lc == rc
		n = left.Len()
	}

	if !ok {
		return false
	}

	// A descendant can declare fewer generics than its ancestor; there is
	// nothing to line up the missing ones against.
	if n > left.Len() || n > right.Len() {
		return false
	}

	rule = rule.reset()
	for i := range n {
		ls, rs := left.Subtype(i), right.Subtype(i)
		if ls != rs && !m.match(ls, rs, rule) {
			return false
		}
	}

	return true
}
