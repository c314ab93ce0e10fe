package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/a-peyrard/modcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("it should build nested modules", func(t *testing.T) {
		// GIVEN
		data, err := os.ReadFile(filepath.Join("testdata", "app.yaml"))
		require.NoError(t, err)

		// WHEN
		modules, err := Parse(data)

		// THEN
		require.NoError(t, err)
		require.Len(t, modules, 1)
		app := modules[0]
		assert.Equal(t, "app", app.Name())
		require.Len(t, app.Definitions(), 2)
		require.Len(t, app.Submodules(), 1)
		assert.Equal(t, "storage", app.Submodules()[0].Name())

		service := app.Definitions()[0]
		assert.Equal(t, modcheck.NamedType("Service"), service.ProducedType)
		assert.Equal(t, modcheck.KindFactory, service.Kind)
		assert.Equal(t, []modcheck.Type{modcheck.NamedType("Service"), modcheck.NamedType("Runner")}, service.BoundTypes)
		assert.Equal(t, []modcheck.Type{modcheck.NamedType("string")}, service.Params)

		config := app.Definitions()[1]
		assert.Equal(t, "app", config.Qualifier)
		assert.Equal(t, modcheck.KindSingle, config.Kind)
		assert.Equal(t, "application configuration", config.Description)
	})

	t.Run("it should decode dependency shorthands", func(t *testing.T) {
		// GIVEN
		data := []byte(`
modules:
  - definitions:
      - type: Service
        dependencies: [Repository, Config@app, "?Clock@utc"]
`)

		// WHEN
		modules, err := Parse(data)

		// THEN
		require.NoError(t, err)
		require.Len(t, modules, 1)
		report, err := modcheck.CheckModules(modules)
		require.Error(t, err)
		require.Len(t, report.Probes, 1)
		requests := report.Probes[0].Requests
		require.Len(t, requests, 3)
		assert.Equal(t, modcheck.Key{Type: modcheck.NamedType("Repository")}, requests[0].Key)
		assert.Equal(t, modcheck.Key{Type: modcheck.NamedType("Config"), Qualifier: "app"}, requests[1].Key)
		assert.Equal(t, modcheck.Key{Type: modcheck.NamedType("Clock"), Qualifier: "utc"}, requests[2].Key)
		assert.True(t, requests[2].Optional)
	})

	t.Run("it should accept an empty manifest", func(t *testing.T) {
		// WHEN
		modules, err := Parse(nil)

		// THEN
		require.NoError(t, err)
		assert.Empty(t, modules)
	})

	t.Run("it should reject an unknown kind", func(t *testing.T) {
		// GIVEN
		data, err := os.ReadFile(filepath.Join("testdata", "invalid.yaml"))
		require.NoError(t, err)

		// WHEN
		_, err = Parse(data)

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown kind "prototype"`)
	})

	t.Run("it should reject unknown fields", func(t *testing.T) {
		// WHEN
		_, err := Parse([]byte("modules:\n  - nme: typo\n"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode manifest")
	})

	t.Run("it should reject a definition without type", func(t *testing.T) {
		// WHEN
		_, err := Parse([]byte("modules:\n  - definitions:\n      - kind: single\n"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type is mandatory")
	})

	t.Run("it should reject a dependency without type", func(t *testing.T) {
		// GIVEN
		content := `
modules:
  - name: app
    definitions:
      - type: Service
        dependencies:
          - Repository
          - named: app
`

		// WHEN
		_, err := Parse([]byte(content))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), `dependency named "app" has no type`)
	})
}

func TestLoadFiles(t *testing.T) {
	t.Run("it should check a valid manifest", func(t *testing.T) {
		// WHEN
		modules, err := LoadFiles(context.Background(), filepath.Join("testdata", "app.yaml"))
		require.NoError(t, err)
		report, err := modcheck.CheckModules(modules)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 3, report.Definitions)
		assert.Equal(t, 3, report.Holders)
	})

	t.Run("it should merge manifests into one scope, in argument order", func(t *testing.T) {
		// WHEN
		modules, err := LoadFiles(
			context.Background(),
			filepath.Join("testdata", "broken.yaml"),
			filepath.Join("testdata", "app.yaml"),
		)
		require.NoError(t, err)
		_, err = modcheck.CheckModules(modules)

		// THEN
		require.Len(t, modules, 2)
		assert.Equal(t, "web", modules[0].Name())
		assert.Equal(t, "app", modules[1].Name())

		var broken *modcheck.BrokenDefinitionError
		require.ErrorAs(t, err, &broken)
		require.Len(t, broken.Broken, 1)
		assert.Equal(t, modcheck.Key{Type: modcheck.NamedType("Session")}, broken.Broken[0].Missing)
	})

	t.Run("it should fail on a missing file", func(t *testing.T) {
		// WHEN
		_, err := LoadFiles(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read manifest")
	})
}
