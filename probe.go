package modcheck

import (
	"errors"
	"fmt"

	"github.com/a-peyrard/modcheck/set"
)

type (
	// Request is a dependency lookup performed by a factory while being probed.
	Request struct {
		Key      Key
		Optional bool
		Resolved *Record
		Err      error
	}

	// ProbeResult is the outcome of probing one definition.
	ProbeResult struct {
		Record   *Record
		Requests []Request
		Broken   []BrokenDefinition
	}

	// Prober invokes factories with placeholder values and records the lookups they perform.
	//
	// Probing is single level: a resolved dependency is served as a placeholder, its own factory is not run.
	// Every definition of the registry being probed on its own, the whole graph gets covered.
	Prober struct {
		resolver *Resolver
		mocks    *Mocks
	}

	recordingScope struct {
		resolver *Resolver
		mocks    *Mocks
		requests []Request
	}
)

func NewProber(resolver *Resolver, mocks *Mocks) *Prober {
	return &Prober{resolver: resolver, mocks: mocks}
}

// Probe runs the factory of record against a fresh recording scope.
//
// Unserved lookups end up in ProbeResult.Broken, once per key, even when the factory swallowed the error. Any other
// failure of the factory is returned as a *ProbeExecutionError.
func (p *Prober) Probe(record *Record) (ProbeResult, error) {
	scope := &recordingScope{resolver: p.resolver, mocks: p.mocks}
	params := p.mocks.SynthesizeAll(record.Definition.Params)

	callErr := call(record.Definition.Factory, params, scope)

	result := ProbeResult{Record: record, Requests: scope.requests}
	reported := set.New[Key]()
	for _, req := range scope.requests {
		if req.Failed() && !reported.Contains(req.Key) {
			reported.Add(req.Key)
			result.Broken = append(result.Broken, BrokenDefinition{Record: record, Missing: req.Key, Cause: req.Err})
		}
	}
	if len(result.Broken) > 0 || callErr == nil {
		return result, nil
	}

	var missing *MissingBindingError
	if errors.As(callErr, &missing) {
		result.Broken = append(result.Broken, BrokenDefinition{Record: record, Missing: missing.Key, Cause: missing})
		return result, nil
	}
	return result, &ProbeExecutionError{Record: record, Err: callErr}
}

func (r ProbeResult) OK() bool {
	return len(r.Broken) == 0
}

// Failed tells the lookup breaks the definition. An optional lookup nothing serves does not.
func (r Request) Failed() bool {
	if r.Err == nil {
		return false
	}
	var missing *MissingBindingError
	return !(r.Optional && errors.As(r.Err, &missing))
}

func (r Request) String() string {
	switch {
	case r.Resolved != nil:
		return fmt.Sprintf("%s -> %s", r.Key, r.Resolved)
	case r.Err != nil:
		return fmt.Sprintf("%s -> %v", r.Key, r.Err)
	default:
		return r.Key.String()
	}
}

func (s *recordingScope) Get(key Key, optional bool) (any, bool, error) {
	record, err := s.resolver.Resolve(key)
	s.requests = append(s.requests, Request{Key: key, Optional: optional, Resolved: record, Err: err})
	if err != nil {
		var missing *MissingBindingError
		if optional && errors.As(err, &missing) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return s.mocks.placeholder(record.Definition.ProducedType, key.Type), true, nil
}

func call(factory FactoryFunc, params Params, scope Scope) (err error) {
	// panic recovery, factories reaching MustGet panic with the lookup error
	defer func() {
		if r := recover(); r != nil {
			if panicErr, ok := r.(error); ok {
				err = fmt.Errorf("panic calling factory:\n\t%w", panicErr)
			} else {
				err = fmt.Errorf("panic calling factory: %v", r)
			}
		}
	}()

	_, err = factory(params, scope)
	return err
}
