package modcheck

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const rootPath = "<root>"

type (
	// Record is a definition together with the path of the module declaring it.
	Record struct {
		Definition Definition
		ModulePath string
	}

	// HolderID identifies an instance holder: redeclaring the same id shadows the previous definition.
	HolderID struct {
		ModulePath string
		Type       Type
		Qualifier  string
	}

	// Shadowing tells a definition was replaced by a later one with the same holder id.
	Shadowing struct {
		Shadowed *Record
		By       *Record
	}

	// Registry is the flattened scope of a module forest. It is never mutated once built.
	Registry struct {
		records     []*Record
		byKey       map[Key][]*Record
		byType      map[Type][]*Record
		definitions int
		shadowed    []Shadowing
	}
)

// Flatten walks the module forest depth first, in declaration order, and registers every definition
// under each of its bound types.
func Flatten(modules ...*Module) (*Registry, error) {
	reg := &Registry{
		byKey:  make(map[Key][]*Record),
		byType: make(map[Type][]*Record),
	}
	for _, m := range modules {
		if m == nil {
			continue
		}
		if err := reg.walk(m, m.name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (reg *Registry) walk(m *Module, path string) error {
	for _, entry := range m.entries {
		switch e := entry.(type) {
		case Definition:
			if err := reg.register(e, path); err != nil {
				return err
			}
		case *Module:
			if err := reg.walk(e, joinPath(path, e.name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (reg *Registry) register(def Definition, path string) error {
	reg.definitions++
	if err := def.validate(); err != nil {
		return &InvalidDefinitionError{Definition: def, ModulePath: path, Err: err}
	}

	record := &Record{Definition: def, ModulePath: path}
	for i, existing := range reg.records {
		if existing.ID() == record.ID() {
			reg.shadowed = append(reg.shadowed, Shadowing{Shadowed: existing, By: record})
			reg.records = append(reg.records[:i:i], reg.records[i+1:]...)
			reg.unindex(existing)
			break
		}
	}

	reg.records = append(reg.records, record)
	for _, key := range def.Keys() {
		reg.byKey[key] = append(reg.byKey[key], record)
		reg.byType[key.Type] = append(reg.byType[key.Type], record)
	}
	return nil
}

func (reg *Registry) unindex(record *Record) {
	for _, key := range record.Definition.Keys() {
		reg.byKey[key] = without(reg.byKey[key], record)
		if len(reg.byKey[key]) == 0 {
			delete(reg.byKey, key)
		}
		reg.byType[key.Type] = without(reg.byType[key.Type], record)
		if len(reg.byType[key.Type]) == 0 {
			delete(reg.byType, key.Type)
		}
	}
}

// Lookup returns the records registered for the exact key, in registration order.
func (reg *Registry) Lookup(key Key) []*Record {
	return reg.byKey[key]
}

// ByType returns the records bound to the type whatever their qualifier, in registration order.
func (reg *Registry) ByType(t Type) []*Record {
	return reg.byType[t]
}

// Records returns the remaining holders in registration order.
func (reg *Registry) Records() []*Record {
	return reg.records
}

// DefinitionCount is the number of definitions walked, shadowed ones included.
func (reg *Registry) DefinitionCount() int {
	return reg.definitions
}

// HolderCount is the number of distinct holders retained.
func (reg *Registry) HolderCount() int {
	return len(reg.records)
}

func (reg *Registry) Shadowed() []Shadowing {
	return reg.shadowed
}

// Fingerprint hashes the shape of the registry: two module forests flattening to the same holders,
// keys and parameters share a fingerprint.
func (reg *Registry) Fingerprint() string {
	h := xxhash.New()
	for _, r := range reg.records {
		def := r.Definition
		_, _ = h.WriteString(r.ModulePath)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(def.Kind.String())
		for _, key := range def.Keys() {
			_, _ = h.WriteString("\x00")
			_, _ = h.WriteString(key.String())
		}
		for _, p := range def.Params {
			_, _ = h.WriteString("\x01")
			_, _ = h.WriteString(p.String())
		}
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func (r *Record) ID() HolderID {
	return HolderID{
		ModulePath: r.ModulePath,
		Type:       r.Definition.ProducedType,
		Qualifier:  r.Definition.Qualifier,
	}
}

func (r *Record) String() string {
	return fmt.Sprintf("%s in module %s", r.Definition, displayPath(r.ModulePath))
}

func joinPath(parent, name string) string {
	switch {
	case name == "":
		return parent
	case parent == "":
		return name
	default:
		return parent + "/" + name
	}
}

func displayPath(path string) string {
	if path == "" {
		return rootPath
	}
	return path
}

func without(records []*Record, record *Record) []*Record {
	kept := make([]*Record, 0, len(records))
	for _, r := range records {
		if r != record {
			kept = append(kept, r)
		}
	}
	return kept
}

func (reg *Registry) describe(sb *strings.Builder) {
	for _, r := range reg.records {
		sb.WriteString(fmt.Sprintf("\t- %s\n", r))
		if desc := r.Definition.Description; desc != "" {
			sb.WriteString(fmt.Sprintf("\t\tdescription: %s\n", desc))
		}
		sb.WriteString("\t\tprovides:\n")
		for _, key := range r.Definition.Keys() {
			sb.WriteString(fmt.Sprintf("\t\t\t- %s\n", key))
		}
		if len(r.Definition.Params) > 0 {
			sb.WriteString("\t\tparams:\n")
			for _, p := range r.Definition.Params {
				sb.WriteString(fmt.Sprintf("\t\t\t- %s\n", p))
			}
		}
	}
}
