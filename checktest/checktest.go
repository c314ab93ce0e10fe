// Package checktest contains helpers to check modules from tests.
package checktest

import (
	"errors"

	"github.com/a-peyrard/modcheck"
	"github.com/a-peyrard/modcheck/option"
	"github.com/a-peyrard/modcheck/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CheckModules checks the modules and fails the test right away if any definition is broken.
func CheckModules(t require.TestingT, modules ...*modcheck.Module) *modcheck.Report {
	return CheckModulesWith(t, modules)
}

// CheckModulesWith is CheckModules with check options.
func CheckModulesWith(t require.TestingT, modules []*modcheck.Module, opts ...option.Option[modcheck.CheckOptions]) *modcheck.Report {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	report, err := modcheck.CheckModules(modules, opts...)
	require.NoError(t, err, "modules are expected to be valid")
	return report
}

// AssertDefinitions asserts the number of definitions walked by the check.
func AssertDefinitions(t assert.TestingT, report *modcheck.Report, expected int) bool {
	if !assert.NotNil(t, report, "no report") {
		return false
	}
	return assert.Equal(t, expected, report.Definitions, "unexpected number of definitions")
}

// AssertRemainingHolders asserts the number of holders left once shadowed definitions are dropped.
func AssertRemainingHolders(t assert.TestingT, report *modcheck.Report, expected int) bool {
	if !assert.NotNil(t, report, "no report") {
		return false
	}
	return assert.Equal(t, expected, report.Holders, "unexpected number of remaining holders")
}

// RequireBroken requires err to be a *modcheck.BrokenDefinitionError reporting at least the missing keys.
func RequireBroken(t require.TestingT, err error, missing ...modcheck.Key) *modcheck.BrokenDefinitionError {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	var broken *modcheck.BrokenDefinitionError
	require.True(t, errors.As(err, &broken), "expected broken definitions, got %v", err)

	reported := set.New[modcheck.Key]()
	for _, b := range broken.Broken {
		reported.Add(b.Missing)
	}
	absent := set.NewWithValues(missing...).Difference(reported)
	require.True(t, absent.IsEmpty(), "expected %v to be reported missing in:\n%s", absent.ToSlice(), broken)
	return broken
}
