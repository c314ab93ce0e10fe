package modcheck

import (
	"fmt"

	"github.com/a-peyrard/modcheck/option"
	"github.com/rs/zerolog"
)

type (
	CheckOptions struct {
		logger zerolog.Logger
		strict bool
		mocks  []mockValue
	}

	mockValue struct {
		typ   Type
		value any
	}

	// Checker verifies that every definition of a module forest can get its dependencies served,
	// without building the real object graph.
	//
	// A Checker keeps no state between checks, each check flattens its own registry.
	Checker struct {
		options *CheckOptions
	}
)

// WithLogger narrates the check on logger, nothing is logged by default.
func WithLogger(logger zerolog.Logger) option.Option[CheckOptions] {
	return func(opts *CheckOptions) {
		opts.logger = logger
	}
}

// Strict reports exact lookups served by several definitions instead of letting the last one win.
func Strict() option.Option[CheckOptions] {
	return func(opts *CheckOptions) {
		opts.strict = true
	}
}

// WithMock hands value out whenever a placeholder of type t is needed.
//
// Interfaces cannot be synthesized, their placeholder is nil: a factory calling a method on a
// resolved interface panics and aborts the check. Mock the interface to probe such factories.
func WithMock(t Type, value any) option.Option[CheckOptions] {
	return func(opts *CheckOptions) {
		opts.mocks = append(opts.mocks, mockValue{typ: t, value: value})
	}
}

func WithMockOf[T any](value T) option.Option[CheckOptions] {
	return WithMock(TypeOf[T](), value)
}

func NewChecker(opts ...option.Option[CheckOptions]) *Checker {
	return &Checker{
		options: option.Build(&CheckOptions{logger: zerolog.Nop()}, opts...),
	}
}

// CheckModules checks the module forest with a one-off Checker.
func CheckModules(modules []*Module, opts ...option.Option[CheckOptions]) (*Report, error) {
	return NewChecker(opts...).Check(modules...)
}

// Check probes every definition in registry order and returns the report.
//
// All definitions are probed before failing: when some are broken, the report is returned along with a
// *BrokenDefinitionError listing each of them. An invalid definition or a factory failing for another reason
// than a missing dependency stops the check right away.
func (c *Checker) Check(modules ...*Module) (*Report, error) {
	logger := c.options.logger

	registry, err := Flatten(modules...)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to flatten modules")
		return nil, err
	}
	c.narrateRegistry(registry)

	mocks := NewMocks()
	for _, m := range c.options.mocks {
		mocks.Set(m.typ, m.value)
	}
	prober := NewProber(NewResolver(registry, c.options.strict), mocks)

	report := newReport(registry)
	for _, record := range registry.Records() {
		logger.Debug().Str("definition", record.String()).Msg("Probing")

		result, err := prober.Probe(record)
		report.add(result)
		if err != nil {
			logger.Error().Err(err).Str("definition", record.String()).Msg("Probe aborted")
			return report, err
		}

		if result.OK() {
			logger.Debug().
				Str("definition", record.String()).
				Int("requests", len(result.Requests)).
				Msg("Verified")
			continue
		}
		for _, b := range result.Broken {
			logger.Error().
				Str("definition", record.String()).
				Str("missing", b.Missing.String()).
				Msg("Broken definition")
		}
	}

	if !report.OK() {
		logger.Info().
			Int("definitions", report.Definitions).
			Int("broken", len(report.Broken)).
			Msg("Check failed")
		return report, &BrokenDefinitionError{Broken: report.Broken, Checked: report.Definitions}
	}

	logger.Info().
		Int("definitions", report.Definitions).
		Int("holders", report.Holders).
		Str("fingerprint", report.Fingerprint).
		Msg("Check succeeded")
	return report, nil
}

func (c *Checker) narrateRegistry(registry *Registry) {
	logger := c.options.logger
	for _, s := range registry.Shadowed() {
		logger.Warn().
			Str("shadowed", s.Shadowed.String()).
			Str("by", s.By.String()).
			Msg("Definition shadowed by a later one")
	}
	for _, record := range registry.Records() {
		logger.Debug().
			Str("definition", record.String()).
			Str("keys", fmt.Sprint(record.Definition.Keys())).
			Msg("Registered")
	}
	logger.Debug().
		Int("definitions", registry.DefinitionCount()).
		Int("holders", registry.HolderCount()).
		Msg("Modules flattened")
}
