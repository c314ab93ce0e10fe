package modcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/a-peyrard/modcheck/set"
)

var (
	// ErrMissingBinding is matched by every error telling a lookup could not be served.
	ErrMissingBinding = errors.New("missing binding")

	// ErrBindingConflict is matched by lookups served by more than one definition in strict mode.
	ErrBindingConflict = errors.New("binding conflict")
)

type (
	// MissingBindingError tells no definition is registered for the key.
	MissingBindingError struct {
		Key Key
	}

	// AmbiguousBindingError tells an unqualified lookup matches several qualified definitions.
	AmbiguousBindingError struct {
		Key        Key
		Candidates []*Record
	}

	// ConflictingBindingError tells an exact lookup is served by several definitions, strict mode only.
	ConflictingBindingError struct {
		Key        Key
		Candidates []*Record
	}

	// InvalidDefinitionError tells a definition cannot be registered at all.
	InvalidDefinitionError struct {
		Definition Definition
		ModulePath string
		Err        error
	}

	// ProbeExecutionError is raised when a factory fails for a reason unrelated to its dependencies.
	// It aborts the check.
	ProbeExecutionError struct {
		Record *Record
		Err    error
	}

	// BrokenDefinition is a definition together with one of the lookups it could not get served.
	BrokenDefinition struct {
		Record  *Record
		Missing Key
		Cause   error
	}

	// BrokenDefinitionError aggregates every broken definition found by a check.
	BrokenDefinitionError struct {
		Broken  []BrokenDefinition
		Checked int
	}
)

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("no definition found for %s", e.Key)
}

func (e *MissingBindingError) Unwrap() error {
	return ErrMissingBinding
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf(
		"ambiguous lookup for %s, %d qualified definitions match: %s",
		e.Key,
		len(e.Candidates),
		describeCandidates(e.Candidates),
	)
}

func (e *AmbiguousBindingError) Unwrap() error {
	return ErrMissingBinding
}

func (e *ConflictingBindingError) Error() string {
	return fmt.Sprintf(
		"conflicting definitions for %s, %d definitions registered: %s",
		e.Key,
		len(e.Candidates),
		describeCandidates(e.Candidates),
	)
}

func (e *ConflictingBindingError) Unwrap() error {
	return ErrBindingConflict
}

func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid definition %s in module %s:\n\t%v", e.Definition, displayPath(e.ModulePath), e.Err)
}

func (e *InvalidDefinitionError) Unwrap() error {
	return e.Err
}

func (e *ProbeExecutionError) Error() string {
	return fmt.Sprintf("failed to probe definition %s:\n\t%v", e.Record, e.Err)
}

func (e *ProbeExecutionError) Unwrap() error {
	return e.Err
}

func (b BrokenDefinition) String() string {
	return fmt.Sprintf("%s: missing %s", b.Record, b.Missing)
}

func (e *BrokenDefinitionError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"broken definitions found (%d of %d checked, %d missing dependencies):\n",
		e.Definitions(),
		e.Checked,
		len(e.Broken),
	))
	for _, b := range e.Broken {
		sb.WriteString(fmt.Sprintf("\t- %s\n", b.Record))
		sb.WriteString(fmt.Sprintf("\t\tmissing: %s\n", b.Missing))
		if b.Cause != nil {
			sb.WriteString(fmt.Sprintf("\t\tcause: %v\n", b.Cause))
		}
	}
	return sb.String()
}

// Definitions counts the distinct definitions that are broken.
func (e *BrokenDefinitionError) Definitions() int {
	records := set.New[*Record]()
	for _, b := range e.Broken {
		records.Add(b.Record)
	}
	return len(records)
}

// Is matches the aggregate against the causes of its broken definitions.
func (e *BrokenDefinitionError) Is(target error) bool {
	for _, b := range e.Broken {
		if errors.Is(b.Cause, target) {
			return true
		}
	}
	return false
}

func describeCandidates(records []*Record) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
