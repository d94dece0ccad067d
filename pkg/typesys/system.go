package typesys

import (
	"fmt"
	"log/slog"

	"github.com/rhino1998/unify/pkg/types"
)

const DefaultInitialCapacity = 4

// TypeMaker builds interned types for the resolver. Build must copy
// subtypes if it keeps them; the resolver passes stack scratch space.
type TypeMaker interface {
	Build(cls *types.Class, subtypes []types.Type, flags types.Flags) types.Type
	Any() types.Type
}

type Config struct {
	// InitialCapacity is the starting size of the binding stack.
	InitialCapacity int `yaml:"initial_capacity" toml:"initial-capacity"`

	// LenientArity accepts a function whose parameters beyond the ones the
	// expected type declares are mandatory. By default every extra parameter
	// must be optional.
	LenientArity bool `yaml:"lenient_arity" toml:"lenient-arity"`
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.InitialCapacity < 0 {
		return fmt.Errorf("initial capacity must not be negative, got %d", c.InitialCapacity)
	}

	if c.InitialCapacity == 0 {
		c.InitialCapacity = DefaultInitialCapacity
	}

	logger.Debug("type system config",
		slog.Int("initial_capacity", c.InitialCapacity),
		slog.Bool("lenient_arity", c.LenientArity),
	)

	return nil
}

// System checks and resolves types for one compilation unit. It is not safe
// for concurrent use: frames must nest strictly on a single goroutine.
type System struct {
	logger *slog.Logger
	Config Config

	maker TypeMaker
	stack *Stack
}

func New(logger *slog.Logger, maker TypeMaker, config Config) (*System, error) {
	if maker == nil {
		return nil, fmt.Errorf("type maker must not be nil")
	}

	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate type system config: %w", err)
	}

	return &System{
		logger: logger,
		Config: config,
		maker:  maker,
		stack:  newStack(logger, config.InitialCapacity),
	}, nil
}

func (s *System) Stack() *Stack {
	return s.stack
}

func (s *System) matcher() *matcher {
	return &matcher{
		stack:       s.stack,
		base:        s.stack.position,
		size:        s.stack.ceiling,
		strictArity: !s.Config.LenientArity,
	}
}

func (s *System) resolver(base, size int) *resolver {
	return &resolver{
		logger: s.logger,
		stack:  s.stack,
		maker:  s.maker,
		base:   base,
		size:   size,
		top:    base + size,
	}
}

// Check reports whether right can be used where left is expected, binding
// unbound generics of the active frame as it goes.
func (s *System) Check(left, right types.Type) bool {
	return s.matcher().match(left, right, CheckRule)
}

// IsBroaderOrEqual reports whether left is right or an ancestor of it,
// without binding anything.
func (s *System) IsBroaderOrEqual(left, right types.Type) bool {
	return s.matcher().match(left, right, BroaderRule)
}

func (s *System) Matches(left, right types.Type, rule Rule) bool {
	return s.matcher().match(left, right, rule)
}

// IsVariantMember reports whether variant is a member of enum, comparing the
// payload against the enum's arguments without solving.
func (s *System) IsVariantMember(enum, variant types.Type) bool {
	e, ok := enum.(*types.Composite)
	if !ok {
		return false
	}

	v, ok := variant.(*types.Composite)
	if !ok || v.Class().Parent() != e.Class() || !e.Class().IsEnum() {
		return false
	}

	return s.matcher().matchEnum(e, v, Rule{Variance: Invariant, Mode: Exact})
}

// Resolve substitutes the active frame's bindings into t. Unbound generics
// become any.
func (s *System) Resolve(t types.Type) types.Type {
	return s.resolver(s.stack.position, s.stack.ceiling).resolve(t)
}

// ResolveWithContext resolves target with its generics bound to the
// arguments of context, e.g. a member's type inside its owning class.
func (s *System) ResolveWithContext(context *types.Composite, target types.Type) types.Type {
	n := context.Len()
	start := s.stack.position + s.stack.ceiling + 1

	s.stack.ensureCapacity(start + 2*n)
	copy(s.stack.slots[start:start+n], context.Subtypes())

	return s.resolver(start, n).resolve(target)
}

// ResolveVariantProjection binds the active frame's generics that
// callResult's variant fills to the matching arguments of enum.
func (s *System) ResolveVariantProjection(callResult, enum *types.Composite) {
	for _, pos := range callResult.Class().VariantPositions() {
		s.stack.Set(pos, enum.Subtype(pos))
	}
}

// FillUnboundWith binds each unbound slot of the active frame to the type at
// the same index of chain.
func (s *System) FillUnboundWith(chain []types.Type) {
	for i := 0; i < s.stack.ceiling && i < len(chain); i++ {
		if s.stack.Get(i) == nil {
			s.stack.Set(i, chain[i])
		}
	}
}

// PullGenerics binds every generic in left to the part of right in the same
// place. Nothing is checked; right is assumed to be an instance of left.
func (s *System) PullGenerics(left, right types.Type) {
	if left == nil || right == nil || !left.Unresolved() {
		return
	}

	switch left := left.(type) {
	case *types.Generic:
		s.stack.Set(left.Pos, right)
	case *types.Composite:
		right, ok := right.(*types.Composite)
		if !ok {
			return
		}

		for i := 0; i < left.Len() && i < right.Len(); i++ {
			s.PullGenerics(left.Subtype(i), right.Subtype(i))
		}
	}
}

// Lookup returns the current binding of g, or nil.
func (s *System) Lookup(g *types.Generic) types.Type {
	return s.stack.Get(g.Pos)
}

func (s *System) RaiseFrame() Frame {
	return s.stack.Raise()
}

func (s *System) LowerFrame(f Frame) {
	s.stack.Lower(f)
}

// WithFrame runs fn in a fresh frame and lowers it however fn returns.
func (s *System) WithFrame(fn func()) {
	frame := s.stack.Raise()
	defer s.stack.Lower(frame)

	fn()
}

func (s *System) RecordMaxGenerics(n int) {
	s.stack.RecordMaxGenerics(n)
}

func (s *System) CountUnbound() int {
	return s.stack.CountUnbound()
}
