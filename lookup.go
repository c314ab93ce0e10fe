package modcheck

import (
	"errors"
	"fmt"
)

// Dependency is a lookup a factory performs.
type Dependency struct {
	Key      Key
	Optional bool
}

func (d Dependency) String() string {
	if d.Optional {
		return d.Key.String() + "?"
	}
	return d.Key.String()
}

// LookupFactory returns a factory performing the given lookups and producing nothing.
//
// It stands in for factories of definitions described outside Go code: every lookup is attempted, so a
// definition missing several dependencies gets all of them reported.
func LookupFactory(deps ...Dependency) FactoryFunc {
	return func(_ Params, scope Scope) (any, error) {
		var errs []error
		for _, dep := range deps {
			if _, _, err := scope.Get(dep.Key, dep.Optional); err != nil {
				errs = append(errs, fmt.Errorf("failed to get %s:\n\t%w", dep, err))
			}
		}
		return nil, errors.Join(errs...)
	}
}
