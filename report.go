package modcheck

import (
	"fmt"
	"strings"
)

// Report is the outcome of a check.
type Report struct {
	// Definitions is the number of definitions walked.
	Definitions int
	// Holders is the number of distinct holders retained, it equals Definitions unless some were shadowed.
	Holders int

	Singles   int
	Factories int

	Probes   []ProbeResult
	Broken   []BrokenDefinition
	Shadowed []Shadowing

	Fingerprint string

	registry *Registry
}

func newReport(registry *Registry) *Report {
	report := &Report{
		Definitions: registry.DefinitionCount(),
		Holders:     registry.HolderCount(),
		Shadowed:    registry.Shadowed(),
		Fingerprint: registry.Fingerprint(),
		registry:    registry,
	}
	for _, r := range registry.Records() {
		switch r.Definition.Kind {
		case KindSingle:
			report.Singles++
		case KindFactory:
			report.Factories++
		}
	}
	return report
}

func (r *Report) add(result ProbeResult) {
	r.Probes = append(r.Probes, result)
	r.Broken = append(r.Broken, result.Broken...)
}

func (r *Report) OK() bool {
	return len(r.Broken) == 0
}

// Registry returns the flattened scope the report was computed on.
func (r *Report) Registry() *Registry {
	return r.registry
}

// Describe lists the holders and the lookups each of them performed.
func (r *Report) Describe() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"* Definitions: %d, holders: %d (%d single, %d factory), fingerprint: %s\n",
		r.Definitions, r.Holders, r.Singles, r.Factories, r.Fingerprint,
	))
	sb.WriteString("* Holders:\n")
	if r.registry != nil {
		r.registry.describe(&sb)
	}
	sb.WriteString("* Probes:\n")
	for _, p := range r.Probes {
		status := "ok"
		if !p.OK() {
			status = "broken"
		}
		sb.WriteString(fmt.Sprintf("\t- %s: %s\n", p.Record, status))
		for _, req := range p.Requests {
			sb.WriteString(fmt.Sprintf("\t\t- %s\n", req))
		}
	}
	if len(r.Shadowed) > 0 {
		sb.WriteString("* Shadowed:\n")
		for _, s := range r.Shadowed {
			sb.WriteString(fmt.Sprintf("\t- %s by %s\n", s.Shadowed, s.By))
		}
	}
	return sb.String()
}
