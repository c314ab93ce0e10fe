package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/a-peyrard/modcheck"
	"golang.org/x/sync/errgroup"
)

// LoadFile reads and parses one manifest.
func LoadFile(path string) ([]*modcheck.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s:\n\t%w", path, err)
	}
	modules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s:\n\t%w", path, err)
	}
	return modules, nil
}

// LoadFiles reads the manifests concurrently, the modules are returned in the order of the paths.
func LoadFiles(parentCtx context.Context, paths ...string) ([]*modcheck.Module, error) {
	group, ctx := errgroup.WithContext(parentCtx)
	loaded := make([][]*modcheck.Module, len(paths))

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			modules, err := LoadFile(path)
			if err != nil {
				return err
			}
			loaded[i] = modules
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var modules []*modcheck.Module
	for _, m := range loaded {
		modules = append(modules, m...)
	}
	return modules, nil
}
