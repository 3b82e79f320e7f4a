package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/schema"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without reading any file or env
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, []string{"./..."}, cfg.Project.Patterns)
	assert.Contains(t, cfg.Project.Exclude, "**/vendor/**")
	assert.Equal(t, schema.BaseType, cfg.Discovery.BaseType)
	assert.Equal(t, "serializers", cfg.Discovery.SubNamespace)
	assert.Equal(t, "./types", cfg.Render.OutputRoot)
	assert.Equal(t, "Serializer", cfg.Render.Suffix)
	assert.False(t, cfg.Render.TrimSuffix)
	assert.Empty(t, cfg.Generate.Serializers)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProjectFileFoundWalkingUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[generate]
serializers = ["billing", "users.AccountSerializer"]

[render]
trim = true
camelize = true
output = "web/src/types"
`)
	nested := filepath.Join(root, "billing", "serializers")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, path, FindProjectConfig(nested))

	cfg, err := Load("", nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, []string{"billing", "users.AccountSerializer"}, cfg.Generate.Serializers)
	assert.True(t, cfg.Render.TrimSuffix)
	assert.True(t, cfg.Render.Camelize)
	assert.False(t, cfg.Render.Annotations)
	assert.Equal(t, "web/src/types", cfg.Render.OutputRoot)
	// Unset keys keep their defaults
	assert.Equal(t, "Serializer", cfg.Render.Suffix)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[render]\ntrim = false\n")
	t.Setenv("TYPOMATIC_RENDER_TRIM", "true")
	t.Setenv("TYPOMATIC_DISCOVERY_SUB_NAMESPACE", "schemas")

	cfg, err := Load("", root)
	require.NoError(t, err)

	assert.True(t, cfg.Render.TrimSuffix)
	assert.Equal(t, "schemas", cfg.Discovery.SubNamespace)
}

func TestLoad_SerializersEnv(t *testing.T) {
	t.Setenv(SerializersEnv, `billing "users.AccountSerializer",blog`)

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"billing", "users.AccountSerializer", "blog"}, cfg.Generate.Serializers)
}

func TestLoad_SerializersEnvUnbalancedQuote(t *testing.T) {
	t.Setenv(SerializersEnv, `billing "users`)

	_, err := Load("", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[watch]\ndebounce_ms = -5\n")

	_, err := Load("", root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.debounce_ms")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project.root"},
		{"empty pattern", func(c *Config) { c.Project.Patterns = []string{"./...", " "} }, "project.patterns"},
		{"bad glob", func(c *Config) { c.Project.Exclude = []string{"[vendor"} }, "project.exclude"},
		{"unqualified base type", func(c *Config) { c.Discovery.BaseType = "Serializer" }, "discovery.base_type"},
		{"trailing dot base type", func(c *Config) { c.Discovery.BaseType = "example.com/base." }, "discovery.base_type"},
		{"empty sub namespace", func(c *Config) { c.Discovery.SubNamespace = "" }, "discovery.sub_namespace"},
		{"dotted sub namespace", func(c *Config) { c.Discovery.SubNamespace = "api.serializers" }, ""},
		{"bad sub namespace", func(c *Config) { c.Discovery.SubNamespace = "api..serializers" }, "empty segment"},
		{"empty output", func(c *Config) { c.Render.OutputRoot = "" }, "render.output"},
		{"trim without suffix", func(c *Config) { c.Render.TrimSuffix = true; c.Render.Suffix = "" }, "render.suffix"},
		{"zero debounce", func(c *Config) { c.Watch.DebounceMS = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshal(t *testing.T) {
	cfg := Default()

	tomlData, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	assert.Contains(t, string(tomlData), "[render]")
	assert.Contains(t, string(tomlData), "sub_namespace = 'serializers'")

	yamlData, err := Marshal(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "render:")
	assert.Contains(t, string(yamlData), "output: ./types")

	_, err = Marshal(cfg, "xml")
	assert.Error(t, err)
}

func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	require.NoError(t, WriteTemplate(path, false))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
	assert.Equal(t, Default().Discovery, cfg.Discovery)

	err = WriteTemplate(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, WriteTemplate(path, true))
}

func TestSplitSpecifiers(t *testing.T) {
	got, err := SplitSpecifiers(" billing,users  'blog.PostSerializer' ,, ")
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "users", "blog.PostSerializer"}, got)
}
