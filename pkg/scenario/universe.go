package scenario

import (
	"fmt"

	"github.com/rhino1998/unify/pkg/kinds"
	"github.com/rhino1998/unify/pkg/topological"
	"github.com/rhino1998/unify/pkg/types"
)

// Universe is the class registry and type interner a fixture declares.
type Universe struct {
	Registry *types.Registry
	Interner *types.Interner
}

// NewUniverse registers decls in dependency order: parents before children
// and enums before their variants.
func NewUniverse(decls []ClassDecl) (*Universe, error) {
	registry := types.NewRegistry()
	u := &Universe{
		Registry: registry,
		Interner: types.NewInterner(registry),
	}

	owner := make(map[string]string)
	for _, decl := range decls {
		owner[decl.Name] = decl.Name
		for _, variant := range decl.Variants {
			owner[variant.Name] = decl.Name
		}
	}

	sorted, err := topological.SortFunc(decls,
		func(decl ClassDecl) string { return decl.Name },
		func(decl ClassDecl) []string {
			if decl.Parent == "" {
				return nil
			}
			return []string{owner[decl.Parent]}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to order classes: %w", err)
	}

	for _, decl := range sorted {
		err := u.declare(decl)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", decl.Name, err)
		}
	}

	return u, nil
}

func (u *Universe) declare(decl ClassDecl) error {
	if !decl.Enum {
		if len(decl.Variants) > 0 {
			return fmt.Errorf("only enums can declare variants")
		}

		var parent *types.Class
		if decl.Parent != "" {
			var ok bool
			parent, ok = u.Registry.Lookup(decl.Parent)
			if !ok {
				return fmt.Errorf("unknown parent class %q", decl.Parent)
			}
		}

		_, err := u.Registry.NewClass(decl.Name, parent, decl.Generics)
		return err
	}

	if decl.Parent != "" {
		return fmt.Errorf("enums cannot declare a parent")
	}

	enum, err := u.Registry.NewEnum(decl.Name, decl.Generics)
	if err != nil {
		return err
	}

	for _, variant := range decl.Variants {
		positions := make([]int, 0, len(variant.Payload))
		for _, name := range variant.Payload {
			pos, ok := types.GenericPosition(name)
			if !ok {
				return fmt.Errorf("variant %q: invalid generic %q", variant.Name, name)
			}

			positions = append(positions, pos)
		}

		_, err := u.Interner.DeclareVariant(enum, variant.Name, positions...)
		if err != nil {
			return err
		}
	}

	return nil
}

// Type builds the type spec describes.
func (u *Universe) Type(spec TypeSpec) (types.Type, error) {
	switch {
	case spec.Absent:
		if spec.Class != "" || spec.Generic != "" || len(spec.Args) > 0 {
			return nil, fmt.Errorf("absent type cannot have a class, generic or arguments")
		}

		return types.Absent, nil
	case spec.Generic != "":
		if spec.Class != "" || len(spec.Args) > 0 {
			return nil, fmt.Errorf("generic %s cannot have a class or arguments", spec.Generic)
		}

		pos, ok := types.GenericPosition(spec.Generic)
		if !ok {
			return nil, fmt.Errorf("invalid generic %q", spec.Generic)
		}

		return u.Interner.Generic(pos), nil
	case spec.Class != "":
		cls, ok := u.Registry.Lookup(spec.Class)
		if !ok {
			return nil, fmt.Errorf("unknown class %q", spec.Class)
		}

		args := make([]types.Type, 0, len(spec.Args))
		for _, arg := range spec.Args {
			t, err := u.Type(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", spec.Class, err)
			}

			args = append(args, t)
		}

		var flags types.Flags
		switch cls.Kind() {
		case kinds.Function:
			if len(args) == 0 {
				return nil, fmt.Errorf("function needs a return type, use {absent: true} for none")
			}

			if spec.Varargs {
				if len(args) < 2 {
					return nil, fmt.Errorf("varargs function needs a parameter")
				}

				flags |= types.FlagVarargs
			}
		default:
			if spec.Varargs {
				return nil, fmt.Errorf("only functions can be varargs")
			}

			if len(args) != cls.Generics() {
				return nil, fmt.Errorf("class %s takes %d arguments, got %d", cls, cls.Generics(), len(args))
			}
		}

		return u.Interner.Build(cls, args, flags), nil
	default:
		return nil, fmt.Errorf("empty type")
	}
}
