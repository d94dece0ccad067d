package types

import (
	"fmt"

	"github.com/rhino1998/unify/pkg/kinds"
)

type ClassID int

// Class is a nominal class. Classes are owned by a Registry and compared by
// pointer identity.
type Class struct {
	id       ClassID
	name     string
	kind     kinds.Kind
	parent   *Class
	generics int

	enum    bool
	variant bool

	// shape is set only for variants: function(payload...) => Variant[G...],
	// where each G is the enum generic its payload position maps to.
	shape *Composite
}

func (c *Class) ID() ClassID { return c.id }
func (c *Class) Name() string { return c.name }
func (c *Class) Kind() kinds.Kind { return c.kind }
func (c *Class) Parent() *Class { return c.parent }
func (c *Class) Generics() int { return c.generics }
func (c *Class) IsEnum() bool { return c.enum }
func (c *Class) IsVariant() bool { return c.variant }
func (c *Class) String() string { return c.name }

// VariantShape returns the variant's shape function, or nil for classes that
// are not variants.
func (c *Class) VariantShape() *Composite {
	return c.shape
}

// VariantPositions lists, for each payload position of a variant, the generic
// position of the parent enum that it fills.
func (c *Class) VariantPositions() []int {
	if c.shape == nil {
		return nil
	}

	out, ok := c.shape.Return().(*Composite)
	if !ok {
		panic(fmt.Sprintf("bug: variant %s has a shape without an output type", c.name))
	}

	positions := make([]int, out.Len())
	for i, sub := range out.Subtypes() {
		generic, ok := sub.(*Generic)
		if !ok {
			panic(fmt.Sprintf("bug: variant %s shape has non-generic output %s", c.name, sub))
		}

		positions[i] = generic.Pos
	}

	return positions
}

// IsAncestorOrEqual reports whether candidate is target or one of target's
// ancestors.
func IsAncestorOrEqual(candidate, target *Class) bool {
	if candidate == target {
		return true
	}

	for target != nil {
		target = target.parent
		if target == candidate && target != nil {
			return true
		}
	}

	return false
}
