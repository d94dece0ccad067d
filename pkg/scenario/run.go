package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rhino1998/unify/pkg/types"
	"github.com/rhino1998/unify/pkg/typesys"
)

// Unbound is how lookup steps render a generic without a binding.
const Unbound = "<unbound>"

type Result struct {
	Case   string
	Step   int
	Op     Op
	Got    string
	Expect string
	Pass   bool
}

type Report struct {
	Results []Result
}

func (r *Report) Failed() int {
	failed := 0
	for _, result := range r.Results {
		if !result.Pass {
			failed++
		}
	}

	return failed
}

type runner struct {
	logger *slog.Logger
	u      *Universe
	sys    *typesys.System

	report *Report
	errs   *ErrorSet
}

// Run runs every case of fixture against a fresh type system. Cases share
// the system, so a frame is sized by the largest generics count seen so far.
// The returned error collects every step that failed or could not run.
func Run(ctx context.Context, logger *slog.Logger, fixture *Fixture) (*Report, error) {
	u, err := NewUniverse(fixture.Classes)
	if err != nil {
		return nil, fmt.Errorf("failed to declare classes: %w", err)
	}

	sys, err := typesys.New(logger, u.Interner, fixture.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize type system: %w", err)
	}

	r := &runner{
		logger: logger,
		u:      u,
		sys:    sys,
		report: &Report{},
		errs:   newErrorSet(),
	}

	for _, c := range fixture.Cases {
		err := ctx.Err()
		if err != nil {
			return r.report, err
		}

		r.runCase(c)
	}

	return r.report, r.errs.Err()
}

func (r *runner) runCase(c Case) {
	r.logger.Debug("running case", slog.String("case", c.Name), slog.Int("steps", len(c.Steps)))

	defer func() {
		if p := recover(); p != nil {
			r.errs.Add(fmt.Errorf("%s: aborted: %v", c.Name, p))
		}
	}()

	r.sys.RecordMaxGenerics(c.Generics)
	r.sys.WithFrame(func() {
		for i, step := range c.Steps {
			got, ok, err := r.runStep(step)
			if err != nil {
				r.errs.Add(StepError{Case: c.Name, Step: i, Op: step.Op, Err: err})
				continue
			}

			if !ok {
				continue
			}

			result := Result{
				Case:   c.Name,
				Step:   i,
				Op:     step.Op,
				Got:    got,
				Expect: step.Expect,
				Pass:   got == step.Expect,
			}
			r.report.Results = append(r.report.Results, result)

			if !result.Pass {
				r.errs.Add(StepError{
					Case: c.Name,
					Step: i,
					Op:   step.Op,
					Err:  fmt.Errorf("%w: got %s, expected %s", ErrMismatch, got, step.Expect),
				})
			}
		}
	})
}

func (r *runner) pair(step Step) (types.Type, types.Type, error) {
	left, err := r.u.Type(step.Left)
	if err != nil {
		return nil, nil, fmt.Errorf("left: %w", err)
	}

	right, err := r.u.Type(step.Right)
	if err != nil {
		return nil, nil, fmt.Errorf("right: %w", err)
	}

	return left, right, nil
}

func (r *runner) composites(step Step) (*types.Composite, *types.Composite, error) {
	left, right, err := r.pair(step)
	if err != nil {
		return nil, nil, err
	}

	lc, ok := left.(*types.Composite)
	if !ok {
		return nil, nil, fmt.Errorf("left: %s is not a class type", left)
	}

	rc, ok := right.(*types.Composite)
	if !ok {
		return nil, nil, fmt.Errorf("right: %s is not a class type", right)
	}

	return lc, rc, nil
}

// runStep runs step and returns its rendered result; ok is false for steps
// that only change bindings.
func (r *runner) runStep(step Step) (got string, ok bool, err error) {
	switch step.Op {
	case OpCheck, OpBroader, OpMatches, OpMember:
		left, right, err := r.pair(step)
		if err != nil {
			return "", false, err
		}

		var match bool
		switch step.Op {
		case OpCheck:
			match = r.sys.Check(left, right)
		case OpBroader:
			match = r.sys.IsBroaderOrEqual(left, right)
		case OpMember:
			match = r.sys.IsVariantMember(left, right)
		default:
			rule, err := ParseRule(step.Variance, step.Mode)
			if err != nil {
				return "", false, err
			}

			match = r.sys.Matches(left, right, rule)
		}

		return strconv.FormatBool(match), true, nil
	case OpResolve:
		left, err := r.u.Type(step.Left)
		if err != nil {
			return "", false, fmt.Errorf("left: %w", err)
		}

		return r.sys.Resolve(left).String(), true, nil
	case OpResolveIn:
		context, err := r.u.Type(step.Left)
		if err != nil {
			return "", false, fmt.Errorf("left: %w", err)
		}

		owner, isClass := context.(*types.Composite)
		if !isClass {
			return "", false, fmt.Errorf("left: %s is not a class type", context)
		}

		target, err := r.u.Type(step.Right)
		if err != nil {
			return "", false, fmt.Errorf("right: %w", err)
		}

		return r.sys.ResolveWithContext(owner, target).String(), true, nil
	case OpProject:
		variant, enum, err := r.composites(step)
		if err != nil {
			return "", false, err
		}

		if !variant.Class().IsVariant() || variant.Class().Parent() != enum.Class() {
			return "", false, fmt.Errorf("%s is not a variant of %s", variant, enum)
		}

		r.sys.ResolveVariantProjection(variant, enum)

		return "", false, nil
	case OpPull:
		left, right, err := r.pair(step)
		if err != nil {
			return "", false, err
		}

		r.sys.PullGenerics(left, right)

		return "", false, nil
	case OpFillSelf:
		r.sys.FillUnboundWith(r.u.Interner.Generics(r.sys.Stack().Ceiling()))

		return "", false, nil
	case OpLookup:
		left, err := r.u.Type(step.Left)
		if err != nil {
			return "", false, fmt.Errorf("left: %w", err)
		}

		generic, isGeneric := left.(*types.Generic)
		if !isGeneric {
			return "", false, fmt.Errorf("left: %s is not a generic", left)
		}

		if generic.Pos >= r.sys.Stack().Ceiling() {
			return "", false, fmt.Errorf("generic %s outside frame of %d", generic, r.sys.Stack().Ceiling())
		}

		bound := r.sys.Lookup(generic)
		if bound == nil {
			return Unbound, true, nil
		}

		return bound.String(), true, nil
	case OpCountUnbound:
		return strconv.Itoa(r.sys.CountUnbound()), true, nil
	default:
		return "", false, fmt.Errorf("unknown op %q", step.Op)
	}
}

// ParseRule parses a variance and mode name; empty names select invariant
// and solve.
func ParseRule(variance, mode string) (typesys.Rule, error) {
	var rule typesys.Rule

	switch variance {
	case "", typesys.Invariant.String():
		rule.Variance = typesys.Invariant
	case typesys.Covariant.String():
		rule.Variance = typesys.Covariant
	case typesys.Contravariant.String():
		rule.Variance = typesys.Contravariant
	default:
		return rule, fmt.Errorf("unknown variance %q", variance)
	}

	switch mode {
	case "", typesys.Solve.String():
		rule.Mode = typesys.Solve
	case typesys.Exact.String():
		rule.Mode = typesys.Exact
	default:
		return rule, fmt.Errorf("unknown mode %q", mode)
	}

	return rule, nil
}
