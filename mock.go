package modcheck

import (
	"fmt"
	"reflect"
)

type (
	// UncheckedMock stands for a value that could not be synthesized.
	// Typed accessors turn it into the zero value of the requested type.
	UncheckedMock struct {
		Type Type
	}

	// Mocks synthesizes placeholder values for runtime parameters and resolved dependencies.
	//
	// Synthesis never fails: custom values win, then a reflective stand-in of the Go type, then an
	// UncheckedMock token.
	Mocks struct {
		values map[Type]any
	}

	// Params holds the runtime parameters handed to a factory.
	Params struct {
		values []any
	}
)

func NewMocks() *Mocks {
	return &Mocks{values: make(map[Type]any)}
}

// Set registers the value to hand out whenever t is synthesized.
func (m *Mocks) Set(t Type, value any) {
	m.values[t] = value
}

// Synthesize returns a deterministic placeholder for t.
func (m *Mocks) Synthesize(t Type) any {
	if v, found := m.values[t]; found {
		return v
	}
	if t.rt == nil {
		return UncheckedMock{Type: t}
	}
	if v, ok := standIn(t.rt); ok {
		return v
	}
	return UncheckedMock{Type: t}
}

// SynthesizeAll builds the parameters for the given runtime parameter types.
func (m *Mocks) SynthesizeAll(types []Type) Params {
	values := make([]any, len(types))
	for i, t := range types {
		values[i] = m.Synthesize(t)
	}
	return Params{values: values}
}

// placeholder returns the value served for a lookup of requested resolved by a definition producing produced.
func (m *Mocks) placeholder(produced, requested Type) any {
	if v, found := m.values[requested]; found {
		return v
	}
	v := m.Synthesize(produced)
	if fits(v, requested) {
		return v
	}
	return m.Synthesize(requested)
}

func (u UncheckedMock) String() string {
	return fmt.Sprintf("<unchecked mock %s>", u.Type)
}

func fits(v any, t Type) bool {
	if t.rt == nil {
		return true
	}
	if _, unchecked := v.(UncheckedMock); unchecked || v == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t.rt)
}

func standIn(rt reflect.Type) (any, bool) {
	switch rt.Kind() {
	case reflect.Interface, reflect.UnsafePointer, reflect.Invalid:
		return nil, false
	case reflect.Pointer:
		return reflect.New(rt.Elem()).Interface(), true
	case reflect.Slice:
		return reflect.MakeSlice(rt, 0, 0).Interface(), true
	case reflect.Map:
		return reflect.MakeMap(rt).Interface(), true
	case reflect.Chan:
		return reflect.MakeChan(rt, 0).Interface(), true
	case reflect.Func:
		return reflect.MakeFunc(rt, func([]reflect.Value) []reflect.Value {
			out := make([]reflect.Value, rt.NumOut())
			for i := range out {
				out[i] = reflect.Zero(rt.Out(i))
			}
			return out
		}).Interface(), true
	default:
		return reflect.Zero(rt).Interface(), true
	}
}

// ParametersOf wraps runtime parameter values.
func ParametersOf(values ...any) Params {
	return Params{values: values}
}

func (p Params) Len() int {
	return len(p.values)
}

func (p Params) At(index int) (any, bool) {
	if index < 0 || index >= len(p.values) {
		return nil, false
	}
	return p.values[index], true
}

// Param returns the runtime parameter at index as a T.
func Param[T any](p Params, index int) (T, error) {
	var zero T
	raw, found := p.At(index)
	if !found {
		return zero, fmt.Errorf("no parameter at index %d, got %d parameters", index, p.Len())
	}
	return coerce[T](raw)
}

func coerce[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	if _, unchecked := raw.(UncheckedMock); unchecked {
		return zero, nil
	}
	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("value %v is not of type %T", raw, zero)
	}
	return val, nil
}
