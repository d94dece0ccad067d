package types_test

import (
	"testing"

	"github.com/rhino1998/unify/pkg/kinds"
	"github.com/rhino1998/unify/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestIsAncestorOrEqual(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()

	animal, err := reg.NewClass("Animal", nil, 0)
	r.NoError(err)
	dog, err := reg.NewClass("Dog", animal, 0)
	r.NoError(err)
	puppy, err := reg.NewClass("Puppy", dog, 0)
	r.NoError(err)
	cat, err := reg.NewClass("Cat", animal, 0)
	r.NoError(err)

	r.True(types.IsAncestorOrEqual(dog, dog))
	r.True(types.IsAncestorOrEqual(animal, dog))
	r.True(types.IsAncestorOrEqual(animal, puppy))
	r.True(types.IsAncestorOrEqual(reg.Any, puppy))
	r.False(types.IsAncestorOrEqual(dog, animal))
	r.False(types.IsAncestorOrEqual(cat, puppy))
	r.False(types.IsAncestorOrEqual(nil, puppy))
	r.False(types.IsAncestorOrEqual(reg.Function, dog))
}

func TestRegistry(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()

	for _, name := range []string{"any", "function", "optarg"} {
		c, ok := reg.Lookup(name)
		r.True(ok, name)
		r.True(c.Kind().IsBuiltin())
	}

	r.Equal(kinds.Function, reg.Function.Kind())
	r.Nil(reg.Any.Parent())

	list, err := reg.NewClass("List", nil, 1)
	r.NoError(err)
	r.Same(reg.Any, list.Parent())
	r.Equal(1, list.Generics())

	_, err = reg.NewClass("List", nil, 1)
	r.Error(err)

	_, err = reg.NewClass("", nil, 0)
	r.Error(err)

	_, err = reg.NewClass("Bad", reg.Function, 0)
	r.Error(err)

	_, err = reg.NewClass("Neg", nil, -1)
	r.Error(err)

	option, err := reg.NewEnum("Option", 1)
	r.NoError(err)
	r.True(option.IsEnum())

	_, err = reg.NewClass("NotAVariant", option, 0)
	r.Error(err)

	c, ok := reg.Lookup("List")
	r.True(ok)
	r.Same(list, c)

	_, ok = reg.Lookup("Missing")
	r.False(ok)

	r.Len(reg.Classes(), 5)
}

func TestInterner_Identity(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()
	in := types.NewInterner(reg)

	intC, err := reg.NewClass("Int", nil, 0)
	r.NoError(err)
	list, err := reg.NewClass("List", nil, 1)
	r.NoError(err)

	listInt := in.Make(list, in.Make(intC))
	r.Same(listInt, in.Make(list, in.Make(intC)))
	r.False(listInt.Unresolved())

	listA := in.Make(list, in.Generic(0))
	r.True(listA.Unresolved())
	r.NotSame(listA, in.Make(list, in.Generic(1)))
	r.Same(in.Generic(3), in.Generic(3))

	fn := in.Function(types.Absent, listA)
	r.True(fn.Unresolved())
	r.Same(fn, in.Function(types.Absent, listA))
	r.NotSame(fn, in.VarargsFunction(types.Absent, listA))

	r.Same(in.Any(), in.Make(reg.Any))
}

func TestInterner_BuildCopiesSubtypes(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()
	in := types.NewInterner(reg)

	intC, err := reg.NewClass("Int", nil, 0)
	r.NoError(err)
	strC, err := reg.NewClass("Str", nil, 0)
	r.NoError(err)
	pair, err := reg.NewClass("Pair", nil, 2)
	r.NoError(err)

	scratch := []types.Type{in.Make(intC), in.Make(strC)}
	built := in.Build(pair, scratch, types.FlagUnresolved).(*types.Composite)
	scratch[0] = in.Make(strC)

	r.Equal("Pair[Int, Str]", built.String())
	r.False(built.Unresolved())
}

func TestInterner_ArityPanics(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()
	in := types.NewInterner(reg)

	list, err := reg.NewClass("List", nil, 1)
	r.NoError(err)

	r.Panics(func() { in.Make(list) })
	r.Panics(func() { in.Make(reg.Function) })
	r.Panics(func() { in.Make(list, nil) })
	r.Panics(func() { in.Generic(-1) })
}

func TestDeclareVariant(t *testing.T) {
	r := require.New(t)
	reg := types.NewRegistry()
	in := types.NewInterner(reg)

	result, err := reg.NewEnum("Result", 2)
	r.NoError(err)

	ok, err := in.DeclareVariant(result, "Ok", 0)
	r.NoError(err)
	fail, err := in.DeclareVariant(result, "Err", 1)
	r.NoError(err)
	both, err := in.DeclareVariant(result, "Both", 1, 0)
	r.NoError(err)

	r.True(ok.IsVariant())
	r.Same(result, ok.Parent())
	r.Equal([]int{0}, ok.VariantPositions())
	r.Equal([]int{1}, fail.VariantPositions())
	r.Equal([]int{1, 0}, both.VariantPositions())
	r.Equal("function(B, A => Both[B, A])", both.VariantShape().String())
	r.Equal([]*types.Class{ok, fail, both}, reg.Variants(result))

	_, err = in.DeclareVariant(result, "Wide", 2)
	r.Error(err)

	list, err := reg.NewClass("List", nil, 1)
	r.NoError(err)
	_, err = in.DeclareVariant(list, "Cons", 0)
	r.Error(err)

	r.Nil(list.VariantPositions())
}

func TestString(t *testing.T) {
	reg := types.NewRegistry()
	in := types.NewInterner(reg)

	intC, _ := reg.NewClass("Int", nil, 0)
	list, _ := reg.NewClass("List", nil, 1)
	Int := in.Make(intC)

	tests := []struct {
		typ  types.Type
		want string
	}{
		{types.Absent, "<absent>"},
		{in.Generic(0), "A"},
		{in.Generic(25), "Z"},
		{in.Generic(26), "G26"},
		{Int, "Int"},
		{in.Make(list, in.Generic(1)), "List[B]"},
		{in.OptArg(Int), "*Int"},
		{in.Function(types.Absent), "function()"},
		{in.Function(Int), "function( => Int)"},
		{in.Function(types.Absent, Int, in.OptArg(Int)), "function(Int, *Int)"},
		{in.Function(Int, in.Make(list, Int)), "function(List[Int] => Int)"},
		{in.VarargsFunction(types.Absent, Int, in.Make(list, Int)), "function(Int, List[Int]...)"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			require.Equal(t, test.want, test.typ.String())
		})
	}
}

func TestGenericPosition(t *testing.T) {
	r := require.New(t)

	for _, name := range []string{"A", "C", "Z", "G26", "G100"} {
		pos, ok := types.GenericPosition(name)
		r.True(ok, name)
		r.Equal(name, (&types.Generic{Pos: pos}).String())
	}

	for _, name := range []string{"", "a", "AB", "G", "G-1", "G01", "Gx"} {
		_, ok := types.GenericPosition(name)
		r.False(ok, name)
	}
}
