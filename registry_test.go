package modcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Run("it should register a definition under each of its bound types", func(t *testing.T) {
		// GIVEN
		module := NewModule("", Single(newComponentC, As[Component]()))

		// WHEN
		reg, err := Flatten(module)

		// THEN
		require.NoError(t, err)
		assert.Len(t, reg.Lookup(KeyOf[*ComponentC]()), 1)
		assert.Len(t, reg.Lookup(KeyOf[Component]()), 1)
		assert.Same(t, reg.Lookup(KeyOf[*ComponentC]())[0], reg.Lookup(KeyOf[Component]())[0])
	})

	t.Run("it should walk modules depth first in declaration order", func(t *testing.T) {
		// GIVEN
		modules := []*Module{
			NewModule("first",
				Single(newComponentA),
				NewModule("nested", Single(newComponentC)),
				Single(newComponentB),
			),
			NewModule("second", Single(newComponentE)),
		}

		// WHEN
		reg, err := Flatten(modules...)

		// THEN
		require.NoError(t, err)
		records := reg.Records()
		require.Len(t, records, 4)
		assert.Equal(t, TypeOf[*ComponentA](), records[0].Definition.ProducedType)
		assert.Equal(t, "first", records[0].ModulePath)
		assert.Equal(t, TypeOf[*ComponentC](), records[1].Definition.ProducedType)
		assert.Equal(t, "first/nested", records[1].ModulePath)
		assert.Equal(t, TypeOf[*ComponentB](), records[2].Definition.ProducedType)
		assert.Equal(t, "second", records[3].ModulePath)
	})

	t.Run("it should keep qualified definitions of the same type apart", func(t *testing.T) {
		// GIVEN
		module := NewModule("",
			Single(newComponentC, Named("default")),
			Single(newComponentC, Named("other")),
		)

		// WHEN
		reg, err := Flatten(module)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 2, reg.HolderCount())
		assert.Len(t, reg.ByType(TypeOf[*ComponentC]()), 2)
		assert.Empty(t, reg.Lookup(KeyOf[*ComponentC]()))
	})

	t.Run("it should shadow a definition redeclared in the same module", func(t *testing.T) {
		// GIVEN
		first := Single(newComponentA, Description("first"))
		second := Single(newComponentA, Description("second"))
		module := NewModule("", first, second)

		// WHEN
		reg, err := Flatten(module)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 2, reg.DefinitionCount())
		assert.Equal(t, 1, reg.HolderCount())
		require.Len(t, reg.Lookup(KeyOf[*ComponentA]()), 1)
		assert.Equal(t, "second", reg.Lookup(KeyOf[*ComponentA]())[0].Definition.Description)
		require.Len(t, reg.Shadowed(), 1)
		assert.Equal(t, "first", reg.Shadowed()[0].Shadowed.Definition.Description)
	})

	t.Run("it should reject a definition without factory", func(t *testing.T) {
		// GIVEN
		module := NewModule("app", Define(TypeOf[*ComponentA](), KindSingle, nil))

		// WHEN
		_, err := Flatten(module)

		// THEN
		var invalid *InvalidDefinitionError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, err.Error(), "definition has no factory")
	})

	t.Run("it should trust named types when binding", func(t *testing.T) {
		// GIVEN
		module := NewModule("", Define(
			NamedType("Impl"),
			KindSingle,
			func(Params, Scope) (any, error) { return nil, nil },
			Bind(NamedType("Iface")),
		))

		// WHEN
		reg, err := Flatten(module)

		// THEN
		require.NoError(t, err)
		assert.Len(t, reg.Lookup(Key{Type: NamedType("Iface")}), 1)
	})
}

func TestRegistry_Fingerprint(t *testing.T) {
	t.Run("it should be stable for the same shape and change with it", func(t *testing.T) {
		// GIVEN
		build := func(qualifier string) *Registry {
			reg, err := Flatten(NewModule("", Single(newComponentA, Named(qualifier)), Single(newComponentB)))
			require.NoError(t, err)
			return reg
		}

		// WHEN
		first := build("a").Fingerprint()
		again := build("a").Fingerprint()
		other := build("b").Fingerprint()

		// THEN
		assert.Len(t, first, 16)
		assert.Equal(t, first, again)
		assert.NotEqual(t, first, other)
	})
}
