package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aledsdavies/callbind/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSignatures = `version: 1.2.0
commands:
  - name: deploy
    description: ship a build
    named:
      - {name: env, short: e, kind: mandatory, shape: string}
      - {name: dry-run, kind: switch}
      - {name: replicas, kind: optional, shape: int}
    required:
      - {name: service, shape: string}
    optional:
      - {name: tag}
    rest: {name: extra, shape: path}
`

const jsoncSignatures = `{
  // comments and trailing commas are allowed
  "version": "v2.0.0",
  "commands": [
    {
      "name": "greet",
      "required": [{"name": "who", "shape": "string"},],
    },
  ],
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	sigs, err := Load(writeFile(t, "sigs.yaml", yamlSignatures))
	require.NoError(t, err)
	require.Len(t, sigs, 1)

	want := &types.Signature{
		Name:        "deploy",
		Description: "ship a build",
		Named: []types.NamedArg{
			{Name: "env", Short: "e", Kind: types.Mandatory, Shape: types.ShapeString},
			{Name: "dry-run", Kind: types.Switch, Shape: types.ShapeAny},
			{Name: "replicas", Kind: types.Optional, Shape: types.ShapeInt},
		},
		Mandatory: []types.PositionalArg{{Name: "service", Shape: types.ShapeString}},
		Optional:  []types.PositionalArg{{Name: "tag", Shape: types.ShapeAny}},
		Rest:      &types.PositionalArg{Name: "extra", Shape: types.ShapePath},
	}
	assert.Equal(t, want, sigs[0])
}

func TestLoadJSONC(t *testing.T) {
	sigs, err := Load(writeFile(t, "sigs.jsonc", jsoncSignatures))
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "greet <who>", sigs[0].Usage())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "sigs.json", `{"commands": [{"name": "noop"}]}`)

	sigs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "noop", sigs[0].Name)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		detail  string
	}{
		{
			name:    "bad version",
			file:    "a.json",
			content: `{"version": "one", "commands": []}`,
			detail:  "/version",
		},
		{
			name:    "numeric version",
			file:    "a2.yaml",
			content: "version: 1.5\ncommands: []\n",
			detail:  "/version",
		},
		{
			name:    "unknown kind",
			file:    "b.json",
			content: `{"commands": [{"name": "x", "named": [{"name": "f", "kind": "sometimes"}]}]}`,
			detail:  "/commands/0/named/0/kind",
		},
		{
			name:    "unknown property",
			file:    "c.yaml",
			content: "commands:\n  - name: x\n    flags: []\n",
			detail:  "/commands/0",
		},
		{
			name:    "unknown shape",
			file:    "d.json",
			content: `{"commands": [{"name": "x", "required": [{"name": "a", "shape": "table"}]}]}`,
			detail:  "/commands/0/required/0/shape",
		},
		{
			name:    "flag-like command name",
			file:    "e.json",
			content: `{"commands": [{"name": "--x"}]}`,
			detail:  "/commands/0/name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Equal(t, path, le.Path)
			require.NotEmpty(t, le.Details)

			found := false
			for _, d := range le.Details {
				if len(d) >= len(tt.detail) && d[:len(tt.detail)] == tt.detail {
					found = true
				}
			}
			assert.True(t, found, "no detail at %s in %v", tt.detail, le.Details)
		})
	}
}

func TestLoadRejectsSemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{
			name:    "duplicate command",
			content: `{"commands": [{"name": "x"}, {"name": "x"}]}`,
			msg:     `command "x" defined twice`,
		},
		{
			name:    "duplicate flag",
			content: `{"commands": [{"name": "x", "named": [{"name": "f", "kind": "switch"}, {"name": "f", "kind": "switch"}]}]}`,
			msg:     "duplicate named argument --f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "sigs.json", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "sigs.toml", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported signature file extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeFile(t, "broken.jsonc", `{"commands": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode jsonc")

	small := NewLoader(&LoaderConfig{MaxFileSize: 4, AllowedSchemes: []string{"schema"}, AssertFormat: true})
	_, err = small.Load(writeFile(t, "big.json", `{"commands": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestLoadFilesLaterFileWins(t *testing.T) {
	first := writeFile(t, "a.json", `{"commands": [{"name": "x"}, {"name": "y"}]}`)
	second := writeFile(t, "b.yaml", "commands:\n  - name: x\n    description: override\n")

	sigs, err := LoadFiles(first, second)
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	assert.Equal(t, "x", sigs[0].Name)
	assert.Equal(t, "override", sigs[0].Description)
	assert.Equal(t, "y", sigs[1].Name)
}

func TestSecureLoaderBlocksRemoteRefs(t *testing.T) {
	load := NewLoader(nil).secureLoader()

	_, err := load("https://example.com/schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote $ref not allowed")

	_, err = load("file:///etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL scheme not allowed")
}

func TestIsSemver(t *testing.T) {
	assert.True(t, isSemver("1.2.3"))
	assert.True(t, isSemver("v1.2.3-rc.1"))
	assert.False(t, isSemver("1.2.x"))
	assert.True(t, isSemver(42), "non-strings are left to type validation")
}
