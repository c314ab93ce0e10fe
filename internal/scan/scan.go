// Package scan builds modules out of the annotated constructors of Go packages.
//
// A constructor becomes a definition when its doc comment carries a `@provider` line:
//
//	// @provider named="app" kind=factory as=Runner
//	// NewService builds the service.
//	func NewService(
//		ctx context.Context,
//		repository *Repository,
//		clock Clock, // @inject named="utc" optional=true
//		id string, // @param
//	) (*Service, error)
//
// Parameters are lookups unless they are a context.Context or annotated with `@param`.
package scan

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"time"

	"github.com/a-peyrard/modcheck"
	"github.com/a-peyrard/modcheck/option"
	"github.com/a-peyrard/modcheck/set"
	"github.com/a-peyrard/modcheck/slices"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

type (
	Options struct {
		logger zerolog.Logger
		dir    string
		tests  bool
	}

	ProviderDefinition struct {
		FnName      string
		ImportPath  string
		Description string

		Produced     string
		Named        string
		Kind         modcheck.Kind
		Binds        []string
		Params       []string
		Dependencies []Dependency
	}

	Dependency struct {
		Type     string
		Named    string
		Optional bool
	}
)

func WithLogger(logger zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithDir sets the directory the patterns are resolved from.
func WithDir(dir string) option.Option[Options] {
	return func(opts *Options) {
		opts.dir = dir
	}
}

// WithTests also scans the test files of the packages.
func WithTests() option.Option[Options] {
	return func(opts *Options) {
		opts.tests = true
	}
}

func (p ProviderDefinition) String() string {
	return fmt.Sprintf(
		`✨ Provider: %s
Description: %s
Import Path: %s
Produced: %s
Named: %s
Kind: %s
Dependencies: [%s]`,
		p.FnName,
		p.Description,
		p.ImportPath,
		p.Produced,
		p.Named,
		p.Kind,
		strings.Join(slices.Map(p.Dependencies, Dependency.String), ", "),
	)
}

func (d Dependency) String() string {
	var sb strings.Builder
	sb.WriteString(d.Type)
	if d.Named != "" {
		sb.WriteString("@")
		sb.WriteString(d.Named)
	}
	if d.Optional {
		sb.WriteString("?")
	}
	return sb.String()
}

// Definition turns the provider into a definition whose factory performs the provider's lookups.
func (p ProviderDefinition) Definition() modcheck.Definition {
	description := p.Description
	if description == "" {
		description = fmt.Sprintf("%s.%s", p.ImportPath, p.FnName)
	}
	deps := slices.Map(p.Dependencies, func(d Dependency) modcheck.Dependency {
		return modcheck.Dependency{
			Key:      modcheck.Key{Type: modcheck.NamedType(d.Type), Qualifier: d.Named},
			Optional: d.Optional,
		}
	})
	return modcheck.Define(
		modcheck.NamedType(p.Produced),
		p.Kind,
		modcheck.LookupFactory(deps...),
		modcheck.Named(p.Named),
		modcheck.Bind(slices.Map(p.Binds, modcheck.NamedType)...),
		modcheck.WithParams(slices.Map(p.Params, modcheck.NamedType)...),
		modcheck.Description(description),
	)
}

// Modules groups the providers in one module per package, ordered by import path.
func Modules(providers []ProviderDefinition) []*modcheck.Module {
	byPackage := make(map[string]*modcheck.Module)
	var paths []string
	for _, p := range providers {
		m, found := byPackage[p.ImportPath]
		if !found {
			m = modcheck.NewModule(p.ImportPath)
			byPackage[p.ImportPath] = m
			paths = append(paths, p.ImportPath)
		}
		m.Add(p.Definition())
	}
	sort.Strings(paths)

	modules := make([]*modcheck.Module, len(paths))
	for i, path := range paths {
		modules[i] = byPackage[path]
	}
	return modules
}

// Scan loads the packages matching the patterns and collects their providers.
func Scan(ctx context.Context, patterns []string, opts ...option.Option[Options]) ([]ProviderDefinition, error) {
	options := option.Build(&Options{logger: zerolog.Nop()}, opts...)
	logger := options.logger

	startScan := time.Now()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     options.dir,
		Tests:   options.tests,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v:\n\t%w", patterns, err)
	}

	// with tests, packages come along their test variant and the generated test main
	pkgs = slices.Filter(pkgs, func(pkg *packages.Package) bool {
		return !strings.HasSuffix(pkg.ID, ".test")
	})

	var providers []ProviderDefinition
	seen := set.New[string]()
	for _, pkg := range pkgs {
		logger := logger.With().Str("package", pkg.ID).Logger()
		if len(pkg.Errors) > 0 {
			for _, pkgErr := range pkg.Errors {
				logger.Warn().Msgf("Package error: %s", pkgErr)
			}
			if pkg.TypesInfo == nil {
				continue
			}
		}

		logger.Debug().Msg("Scanning package")
		for _, file := range pkg.Syntax {
			for _, provider := range scanFile(&logger, pkg, file) {
				id := provider.ImportPath + "." + provider.FnName
				if seen.Contains(id) {
					continue
				}
				seen.Add(id)
				providers = append(providers, provider)
			}
		}
	}

	logger.Info().Msgf("🎯 %d providers found in %d packages", len(providers), len(pkgs))
	logger.Debug().Msgf("Providers:\n%s", strings.Join(slices.Map(providers, ProviderDefinition.String), "\n----\n"))
	logger.Info().Msgf("🕵️‍♂️ Scanning completed in %s", time.Since(startScan))

	return providers, nil
}

func scanFile(logger *zerolog.Logger, pkg *packages.Package, file *ast.File) []ProviderDefinition {
	var providers []ProviderDefinition
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Doc == nil || !strings.Contains(fn.Doc.Text(), providerAnnotationTag) {
			continue
		}
		logger := logger.With().Str("provider", fn.Name.Name).Logger()
		logger.Debug().Msg("=> Found provider")

		provider, ok := scanProvider(&logger, pkg, file, fn)
		if ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

func scanProvider(logger *zerolog.Logger, pkg *packages.Package, file *ast.File, fn *ast.FuncDecl) (ProviderDefinition, bool) {
	obj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	if !ok {
		logger.Warn().Msg("No type information, skipping provider")
		return ProviderDefinition{}, false
	}
	signature := obj.Type().(*types.Signature)
	if signature.TypeParams().Len() > 0 {
		logger.Warn().Msg("Generic providers are not supported, skipping provider")
		return ProviderDefinition{}, false
	}
	if signature.Results().Len() == 0 {
		logger.Error().Msg("Provider returns nothing, skipping provider")
		return ProviderDefinition{}, false
	}

	annotation := parseProviderAnnotation(logger, fn.Doc.Text())
	for _, unknown := range annotation.UnknownProperties() {
		logger.Warn().Msgf("Unknown property %q, ignoring it", unknown)
	}

	provider := ProviderDefinition{
		FnName:      fn.Name.Name,
		ImportPath:  pkg.PkgPath,
		Description: annotation.description,
		Produced:    typeName(signature.Results().At(0).Type()),
		Kind:        annotation.Kind(),
	}
	if named, found := annotation.Named(); found {
		provider.Named = named
	}
	for _, as := range annotation.As() {
		provider.Binds = append(provider.Binds, qualify(pkg.PkgPath, as))
	}

	params := signature.Params()
	idx := 0
	for _, field := range fn.Type.Params.List {
		count := max(len(field.Names), 1)
		paramAnnotation := parseParameterAnnotation(logger, findCommentForParam(pkg.Fset, file, field))
		for range count {
			if idx >= params.Len() {
				break
			}
			paramType := params.At(idx).Type()
			idx++

			if paramAnnotation.IsParam() || isContext(paramType) {
				provider.Params = append(provider.Params, typeName(paramType))
				continue
			}
			dep := Dependency{Type: typeName(paramType), Optional: paramAnnotation.Optional()}
			if named, found := paramAnnotation.Named(); found {
				dep.Named = named
			}
			provider.Dependencies = append(provider.Dependencies, dep)
		}
	}

	return provider, true
}

func findCommentForParam(fset *token.FileSet, file *ast.File, param *ast.Field) string {
	paramLine := fset.Position(param.Pos()).Line

	for _, commentGroup := range file.Comments {
		for _, comment := range commentGroup.List {
			commentLine := fset.Position(comment.Pos()).Line
			if commentLine == paramLine && comment.Pos() > param.Pos() {
				return comment.Text
			}
		}
	}
	return ""
}

// typeName qualifies named types with their full package path.
func typeName(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		return p.Path()
	})
}

// qualify prefixes a bare type name of an annotation with the package it was written in.
func qualify(pkgPath string, name string) string {
	bare := strings.TrimLeft(name, "*")
	if strings.Contains(bare, ".") || types.Universe.Lookup(bare) != nil {
		return name
	}
	return name[:len(name)-len(bare)] + pkgPath + "." + bare
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}
