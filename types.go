package modcheck

import (
	"fmt"
	"reflect"
)

var (
	StringType = TypeOf[string]()
	ErrorType  = TypeOf[error]()
	AnyType    = TypeOf[any]()
)

type (
	// Type identifies a producible or requestable type.
	//
	// Types built with TypeOf carry their reflect.Type so placeholders of the right shape can be synthesized
	// while probing. Types built with NamedType are plain identifiers, used when modules are described
	// outside Go code (manifests, source scanning).
	Type struct {
		name string
		rt   reflect.Type
	}

	// Key is the lookup unit of the registry: a type and an optional qualifier.
	Key struct {
		Type      Type
		Qualifier string
	}
)

// TypeOf returns the identifier of the Go type T, interfaces included.
func TypeOf[T any]() Type {
	var t T
	rt := reflect.TypeOf(t)
	if rt == nil {
		rt = reflect.TypeOf((*T)(nil)).Elem()
	}
	return Type{name: rt.String(), rt: rt}
}

// NamedType returns a reflection-free identifier.
func NamedType(name string) Type {
	return Type{name: name}
}

func typeFromReflect(rt reflect.Type) Type {
	return Type{name: rt.String(), rt: rt}
}

func (t Type) Name() string {
	return t.name
}

// Reflect returns the underlying Go type, or nil for named types.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

func (t Type) IsZero() bool {
	return t.name == "" && t.rt == nil
}

func (t Type) String() string {
	return t.name
}

// KeyOf returns the unqualified key of T.
func KeyOf[T any]() Key {
	return Key{Type: TypeOf[T]()}
}

// NamedKeyOf returns the key of T qualified by qualifier.
func NamedKeyOf[T any](qualifier string) Key {
	return Key{Type: TypeOf[T](), Qualifier: qualifier}
}

func (k Key) IsQualified() bool {
	return k.Qualifier != ""
}

func (k Key) String() string {
	if k.Qualifier == "" {
		return fmt.Sprintf("(%s)", k.Type)
	}
	return fmt.Sprintf("(%s, %s)", k.Type, k.Qualifier)
}

// canBind tells if a value of the produced type can be served under the bound type.
// Named types carry no reflection data, they are trusted.
func canBind(produced, bound Type) bool {
	if produced == bound || produced.rt == nil || bound.rt == nil {
		return true
	}
	if bound.rt.Kind() == reflect.Interface {
		return produced.rt.Implements(bound.rt)
	}
	return produced.rt.AssignableTo(bound.rt)
}
