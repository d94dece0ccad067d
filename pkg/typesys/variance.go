package typesys

import "fmt"

type Variance int

const (
	// Invariant requires the same class on both sides.
	Invariant Variance = iota
	// Covariant lets the right side be a descendant of the left.
	Covariant
	// Contravariant lets the right side be an ancestor of the left.
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Invariant:
		return "invariant"
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	default:
		return fmt.Sprintf("<variance %d>", int(v))
	}
}

type Mode int

const (
	// Solve binds unbound generics on the left side as they are met.
	Solve Mode = iota
	// Exact only accepts a generic against the identical placeholder.
	Exact
)

func (m Mode) String() string {
	switch m {
	case Solve:
		return "solve"
	case Exact:
		return "exact"
	default:
		return fmt.Sprintf("<mode %d>", int(m))
	}
}

// Rule is the variance and solving mode of one comparison site.
type Rule struct {
	Variance Variance
	Mode     Mode
}

var (
	CheckRule   = Rule{Variance: Invariant, Mode: Solve}
	BroaderRule = Rule{Variance: Covariant, Mode: Exact}
)

func (r Rule) String() string {
	return fmt.Sprintf("%s/%s", r.Variance, r.Mode)
}

func (r Rule) exact() Rule {
	r.Mode = Exact
	return r
}

// reset drops the variance at a subtype boundary. Variance belongs to the
// comparison site, not to the generic arguments below it.
func (r Rule) reset() Rule {
	return Rule{Variance: Invariant, Mode: r.Mode}
}

func (r Rule) with(v Variance) Rule {
	r.Variance = v
	return r
}
