package modcheck

import (
	"errors"
	"fmt"

	"github.com/a-peyrard/modcheck/option"
)

type (
	// Kind tells how many instances a definition produces per scope.
	Kind int

	// FactoryFunc builds an instance from the runtime parameters and the scope it resolves dependencies from.
	FactoryFunc func(params Params, scope Scope) (any, error)

	// Definition declares how to produce an instance and under which keys it can be resolved.
	Definition struct {
		ProducedType Type
		BoundTypes   []Type
		Qualifier    string
		Kind         Kind
		Params       []Type
		Factory      FactoryFunc
		Description  string
	}

	DefinitionOptions struct {
		qualifier   string
		bound       []Type
		params      []Type
		description string
	}
)

const (
	KindSingle Kind = iota
	KindFactory
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindFactory:
		return "factory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Named qualifies the definition.
func Named(qualifier string) option.Option[DefinitionOptions] {
	return func(opts *DefinitionOptions) {
		opts.qualifier = qualifier
	}
}

// As makes the definition resolvable as T as well, T being usually an interface the produced type implements.
func As[T any]() option.Option[DefinitionOptions] {
	return Bind(TypeOf[T]())
}

// Bind makes the definition resolvable under the given types as well.
func Bind(types ...Type) option.Option[DefinitionOptions] {
	return func(opts *DefinitionOptions) {
		opts.bound = append(opts.bound, types...)
	}
}

// WithParam declares a runtime parameter of type T, supplied by the caller at resolution time.
func WithParam[T any]() option.Option[DefinitionOptions] {
	return WithParams(TypeOf[T]())
}

// WithParams declares runtime parameters, in the order the factory reads them.
func WithParams(types ...Type) option.Option[DefinitionOptions] {
	return func(opts *DefinitionOptions) {
		opts.params = append(opts.params, types...)
	}
}

func Description(description string) option.Option[DefinitionOptions] {
	return func(opts *DefinitionOptions) {
		opts.description = description
	}
}

// Single declares a definition producing one instance per scope.
func Single[T any](factory func(params Params, scope Scope) (T, error), opts ...option.Option[DefinitionOptions]) Definition {
	return Define(TypeOf[T](), KindSingle, eraseFactory(factory), opts...)
}

// Factory declares a definition producing a new instance on every resolution.
func Factory[T any](factory func(params Params, scope Scope) (T, error), opts ...option.Option[DefinitionOptions]) Definition {
	return Define(TypeOf[T](), KindFactory, eraseFactory(factory), opts...)
}

// Define declares a definition from an untyped factory.
func Define(produced Type, kind Kind, factory FactoryFunc, opts ...option.Option[DefinitionOptions]) Definition {
	options := option.Build(&DefinitionOptions{}, opts...)

	bound := []Type{produced}
	for _, t := range options.bound {
		if !containsType(bound, t) {
			bound = append(bound, t)
		}
	}

	return Definition{
		ProducedType: produced,
		BoundTypes:   bound,
		Qualifier:    options.qualifier,
		Kind:         kind,
		Params:       options.params,
		Factory:      factory,
		Description:  options.description,
	}
}

func eraseFactory[T any](factory func(params Params, scope Scope) (T, error)) FactoryFunc {
	if factory == nil {
		return nil
	}
	return func(params Params, scope Scope) (any, error) {
		return factory(params, scope)
	}
}

// Keys lists every key the definition can be resolved with.
func (d Definition) Keys() []Key {
	keys := make([]Key, len(d.BoundTypes))
	for i, t := range d.BoundTypes {
		keys[i] = Key{Type: t, Qualifier: d.Qualifier}
	}
	return keys
}

func (d Definition) String() string {
	if d.Qualifier == "" {
		return fmt.Sprintf("%s(%s)", d.Kind, d.ProducedType)
	}
	return fmt.Sprintf("%s(%s, %s)", d.Kind, d.ProducedType, d.Qualifier)
}

func (d Definition) validate() error {
	if d.ProducedType.IsZero() {
		return errors.New("definition has no produced type")
	}
	if d.Factory == nil {
		return errors.New("definition has no factory")
	}
	for _, t := range d.BoundTypes {
		if !canBind(d.ProducedType, t) {
			return fmt.Errorf("produced type %s cannot be bound as %s", d.ProducedType, t)
		}
	}
	return nil
}

func (Definition) isEntry() {}

func containsType(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
