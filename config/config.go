// Package config loads typomatic configuration from defaults, a project
// typomatic.toml, TYPOMATIC_* environment variables and command-line flags,
// in increasing precedence.
package config

import (
	"github.com/teranos/typomatic/emitter"
)

// FileName is the project configuration file searched for by walking up
// from the working directory.
const FileName = "typomatic.toml"

// EnvPrefix prefixes every environment variable: render.trim is read from
// TYPOMATIC_RENDER_TRIM.
const EnvPrefix = "TYPOMATIC"

// Config is the complete typomatic configuration.
type Config struct {
	Project   ProjectConfig   `mapstructure:"project" toml:"project" yaml:"project"`
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery" yaml:"discovery"`
	Generate  GenerateConfig  `mapstructure:"generate" toml:"generate" yaml:"generate"`
	Render    emitter.Options `mapstructure:"render" toml:"render" yaml:"render"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" yaml:"watch"`

	// Source is the config file that was read, empty when none was found
	Source string `mapstructure:"-" toml:"-" yaml:"-"`
}

// ProjectConfig locates the Go packages to scan.
type ProjectConfig struct {
	// Root is the project directory packages are loaded from
	Root string `mapstructure:"root" toml:"root" yaml:"root"`
	// Patterns are go/packages load patterns
	Patterns []string `mapstructure:"patterns" toml:"patterns" yaml:"patterns"`
	// Exclude are doublestar globs, relative to Root, of dependency
	// directories skipped by --all
	Exclude []string `mapstructure:"exclude" toml:"exclude" yaml:"exclude"`
	// BuildTags are passed to the go build system
	BuildTags []string `mapstructure:"build_tags" toml:"build_tags" yaml:"build_tags"`
}

// DiscoveryConfig controls what counts as a schema declaration.
type DiscoveryConfig struct {
	// BaseType is the fully qualified base schema type, e.g.
	// "github.com/teranos/typomatic/schema.Serializer"
	BaseType string `mapstructure:"base_type" toml:"base_type" yaml:"base_type"`
	// SubNamespace is scanned for package and package.Name specifiers
	SubNamespace string `mapstructure:"sub_namespace" toml:"sub_namespace" yaml:"sub_namespace"`
}

// GenerateConfig is the default selection and run behaviour.
type GenerateConfig struct {
	Serializers []string `mapstructure:"serializers" toml:"serializers" yaml:"serializers"`
	All         bool     `mapstructure:"all" toml:"all" yaml:"all"`
	// Incremental rewrites a context after every new declaration
	Incremental bool `mapstructure:"incremental" toml:"incremental" yaml:"incremental"`
	// Manifest is a YAML report path, empty to skip
	Manifest string `mapstructure:"manifest" toml:"manifest" yaml:"manifest"`
}

// WatchConfig tunes --watch.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms"`
}
