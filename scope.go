package modcheck

import "fmt"

// Scope is what a factory resolves its dependencies from.
type Scope interface {
	// Get returns the instance served for key.
	//
	// A mandatory lookup nothing serves fails with an error matching ErrMissingBinding, an optional one
	// reports found=false instead.
	Get(key Key, optional bool) (val any, found bool, err error)
}

// Get resolves the unqualified dependency T.
func Get[T any](s Scope) (T, error) {
	val, _, err := get[T](s, KeyOf[T](), false)
	return val, err
}

// GetNamed resolves the dependency T qualified by qualifier.
func GetNamed[T any](s Scope, qualifier string) (T, error) {
	val, _, err := get[T](s, NamedKeyOf[T](qualifier), false)
	return val, err
}

// TryGet resolves the unqualified dependency T if something serves it.
func TryGet[T any](s Scope) (value T, found bool, err error) {
	return get[T](s, KeyOf[T](), true)
}

// TryGetNamed resolves the dependency T qualified by qualifier if something serves it.
func TryGetNamed[T any](s Scope, qualifier string) (value T, found bool, err error) {
	return get[T](s, NamedKeyOf[T](qualifier), true)
}

// MustGet is Get panicking on error.
func MustGet[T any](s Scope) T {
	val, err := Get[T](s)
	if err != nil {
		panic(err)
	}
	return val
}

// MustGetNamed is GetNamed panicking on error.
func MustGetNamed[T any](s Scope, qualifier string) T {
	val, err := GetNamed[T](s, qualifier)
	if err != nil {
		panic(err)
	}
	return val
}

func get[T any](s Scope, key Key, optional bool) (val T, found bool, err error) {
	raw, found, err := s.Get(key, optional)
	if err != nil {
		return val, false, fmt.Errorf("failed to get %s:\n\t%w", key, err)
	}
	if !found {
		return val, false, nil
	}
	val, err = coerce[T](raw)
	if err != nil {
		return val, false, fmt.Errorf("failed to get %s:\n\t%w", key, err)
	}
	return val, true, nil
}
