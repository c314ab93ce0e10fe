// Package manifest describes modules in YAML, for forests not declared in Go code.
//
// A manifest lists modules, their definitions and nested modules:
//
//	modules:
//	  - name: app
//	    definitions:
//	      - type: Service
//	        kind: factory
//	        named: main
//	        binds: [Runner]
//	        params: [string]
//	        dependencies:
//	          - Repository
//	          - Config@app
//	          - ?Clock
//	    modules:
//	      - name: storage
//	        definitions:
//	          - type: Repository
//
// A dependency is either a mapping (type, named, optional) or a scalar shorthand: `Type`, `Type@qualifier`,
// prefixed with `?` when optional.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/a-peyrard/modcheck"
	"github.com/a-peyrard/modcheck/slices"
	"gopkg.in/yaml.v3"
)

type (
	File struct {
		Modules []ModuleSpec `yaml:"modules"`
	}

	ModuleSpec struct {
		Name        string           `yaml:"name"`
		Definitions []DefinitionSpec `yaml:"definitions"`
		Modules     []ModuleSpec     `yaml:"modules"`
	}

	DefinitionSpec struct {
		Type         string           `yaml:"type"`
		Kind         string           `yaml:"kind"`
		Named        string           `yaml:"named"`
		Binds        []string         `yaml:"binds"`
		Params       []string         `yaml:"params"`
		Dependencies []DependencySpec `yaml:"dependencies"`
		Description  string           `yaml:"description"`
	}

	DependencySpec struct {
		Type     string `yaml:"type"`
		Named    string `yaml:"named"`
		Optional bool   `yaml:"optional"`
	}
)

// Parse decodes a manifest and builds its modules.
func Parse(data []byte) ([]*modcheck.Module, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode manifest:\n\t%w", err)
	}
	return file.Build()
}

// Build turns the decoded manifest into modules.
func (f File) Build() ([]*modcheck.Module, error) {
	modules := make([]*modcheck.Module, 0, len(f.Modules))
	for i, spec := range f.Modules {
		m, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build module #%d:\n\t%w", i, err)
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func (s ModuleSpec) Build() (*modcheck.Module, error) {
	m := modcheck.NewModule(s.Name)
	for _, spec := range s.Definitions {
		def, err := spec.Definition()
		if err != nil {
			return nil, fmt.Errorf("invalid definition %q in module %q:\n\t%w", spec.Type, s.Name, err)
		}
		m.Add(def)
	}
	for _, spec := range s.Modules {
		sub, err := spec.Build()
		if err != nil {
			return nil, err
		}
		m.Add(sub)
	}
	return m, nil
}

// Definition builds a definition whose factory performs the declared lookups.
func (s DefinitionSpec) Definition() (modcheck.Definition, error) {
	if strings.TrimSpace(s.Type) == "" {
		return modcheck.Definition{}, errors.New("type is mandatory")
	}
	kind, err := parseKind(s.Kind)
	if err != nil {
		return modcheck.Definition{}, err
	}

	deps, err := slices.UnsafeMap(s.Dependencies, DependencySpec.Dependency)
	if err != nil {
		return modcheck.Definition{}, err
	}

	return modcheck.Define(
		modcheck.NamedType(s.Type),
		kind,
		modcheck.LookupFactory(deps...),
		modcheck.Named(s.Named),
		modcheck.Bind(namedTypes(s.Binds)...),
		modcheck.WithParams(namedTypes(s.Params)...),
		modcheck.Description(s.Description),
	), nil
}

func (d DependencySpec) Dependency() (modcheck.Dependency, error) {
	if d.Type == "" {
		return modcheck.Dependency{}, fmt.Errorf("dependency named %q has no type", d.Named)
	}
	return modcheck.Dependency{
		Key:      modcheck.Key{Type: modcheck.NamedType(d.Type), Qualifier: d.Named},
		Optional: d.Optional,
	}, nil
}

// UnmarshalYAML accepts the scalar shorthand as well as the mapping form.
func (d *DependencySpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = parseShorthand(node.Value)
		return nil
	}

	type plain DependencySpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = DependencySpec(p)
	return nil
}

func parseShorthand(value string) DependencySpec {
	var d DependencySpec
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "?") {
		d.Optional = true
		value = strings.TrimPrefix(value, "?")
	}
	d.Type, d.Named, _ = strings.Cut(value, "@")
	return d
}

func parseKind(kind string) (modcheck.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "single", "singleton":
		return modcheck.KindSingle, nil
	case "factory":
		return modcheck.KindFactory, nil
	default:
		return 0, fmt.Errorf("unknown kind %q, expected single or factory", kind)
	}
}

func namedTypes(names []string) []modcheck.Type {
	types := make([]modcheck.Type, len(names))
	for i, name := range names {
		types[i] = modcheck.NamedType(name)
	}
	return types
}
