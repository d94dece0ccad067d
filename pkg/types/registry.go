package types

import (
	"fmt"

	"github.com/rhino1998/unify/pkg/kinds"
)

// Registry owns every class. The built-in classes any, function and optarg
// always exist; user classes without an explicit parent descend from any.
type Registry struct {
	classes []*Class
	byName  map[string]*Class

	Any      *Class
	Function *Class
	OptArg   *Class
}

func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Class),
	}

	r.Any = r.add(&Class{name: "any", kind: kinds.Any})
	r.Function = r.add(&Class{name: "function", kind: kinds.Function})
	r.OptArg = r.add(&Class{name: "optarg", kind: kinds.OptArg, generics: 1})

	return r
}

func (r *Registry) add(c *Class) *Class {
	c.id = ClassID(len(r.classes))
	r.classes = append(r.classes, c)
	r.byName[c.name] = c

	return c
}

func (r *Registry) declare(name string, parent *Class, generics int) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("class name must not be empty")
	}

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("class %q already declared", name)
	}

	if generics < 0 {
		return nil, fmt.Errorf("class %q has negative generic count %d", name, generics)
	}

	if parent == nil {
		parent = r.Any
	} else if parent.kind != kinds.Class && parent.kind != kinds.Any {
		return nil, fmt.Errorf("class %q cannot inherit from built-in %s", name, parent)
	}

	return r.add(&Class{name: name, kind: kinds.Class, parent: parent, generics: generics}), nil
}

// NewClass declares a plain class. A nil parent makes the class a direct
// child of any.
func (r *Registry) NewClass(name string, parent *Class, generics int) (*Class, error) {
	if parent != nil && parent.enum {
		return nil, fmt.Errorf("class %q cannot inherit from enum %s; declare a variant instead", name, parent)
	}

	return r.declare(name, parent, generics)
}

func (r *Registry) NewEnum(name string, generics int) (*Class, error) {
	c, err := r.declare(name, nil, generics)
	if err != nil {
		return nil, err
	}

	c.enum = true

	return c, nil
}

// newVariant declares a variant class of enum. Its shape is attached by the
// Interner, which owns type construction.
func (r *Registry) newVariant(name string, enum *Class, payload int) (*Class, error) {
	if enum == nil || !enum.enum {
		return nil, fmt.Errorf("variant %q must belong to an enum, got %v", name, enum)
	}

	c, err := r.declare(name, enum, payload)
	if err != nil {
		return nil, err
	}

	c.variant = true

	return c, nil
}

func (r *Registry) Lookup(name string) (*Class, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Classes returns every registered class in declaration order.
func (r *Registry) Classes() []*Class {
	return r.classes
}

// Variants returns the variants declared for enum, in declaration order.
func (r *Registry) Variants(enum *Class) []*Class {
	var variants []*Class
	for _, c := range r.classes {
		if c.variant && c.parent == enum {
			variants = append(variants, c)
		}
	}

	return variants
}
