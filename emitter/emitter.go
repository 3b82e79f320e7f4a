// Package emitter defines the contract between the orchestrator and the
// code emitters that turn declarations into type definition files.
package emitter

import (
	"os"
	"path/filepath"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/schema"
)

// Emitter accumulates declarations per output context and writes one file
// per context. An Emitter instance lives for exactly one run.
type Emitter interface {
	// RegisterDeclaration records decl under ctx. It is idempotent per
	// declared name within a context and reports whether decl was new.
	RegisterDeclaration(decl *schema.Declaration, ctx schema.OutputContext) bool

	// Flush renders every declaration registered under ctx and writes the
	// result to outputPath.
	Flush(outputPath string, ctx schema.OutputContext, opts Options) error

	// FileExtension returns the extension of written files, without the dot
	FileExtension() string

	// Language returns the target language name (e.g. "typescript")
	Language() string
}

// Factory creates a fresh Emitter for one run.
type Factory func() Emitter

// Options is the rendering configuration, fixed for a whole run and passed
// unchanged to every Flush.
type Options struct {
	// TrimSuffix strips Suffix from emitted type names
	TrimSuffix bool `mapstructure:"trim" toml:"trim" yaml:"trim"`
	// Suffix is the name suffix TrimSuffix removes (default "Serializer")
	Suffix string `mapstructure:"suffix" toml:"suffix" yaml:"suffix"`
	// Camelize converts field names to camelCase
	Camelize bool `mapstructure:"camelize" toml:"camelize" yaml:"camelize"`
	// Annotations adds JSDoc annotations for docs and validation rules
	Annotations bool `mapstructure:"annotations" toml:"annotations" yaml:"annotations"`
	// EnumChoices emits choices as a named enum instead of a literal union
	EnumChoices bool `mapstructure:"enum_choices" toml:"enum_choices" yaml:"enum_choices"`
	// EnumValues emits a value -> display label map per choices field
	EnumValues bool `mapstructure:"enum_values" toml:"enum_values" yaml:"enum_values"`
	// EnumKeys emits a value -> key map per choices field
	EnumKeys bool `mapstructure:"enum_keys" toml:"enum_keys" yaml:"enum_keys"`
	// OutputRoot is the directory holding one sub-directory per context
	OutputRoot string `mapstructure:"output" toml:"output" yaml:"output"`
}

// DefaultSuffix is trimmed from type names when Options.TrimSuffix is set.
const DefaultSuffix = "Serializer"

// DefaultOutputRoot is where files are written unless configured otherwise.
const DefaultOutputRoot = "./types"

// OutputPath returns <root>/<ctx>/index.<ext>.
func OutputPath(root string, ctx schema.OutputContext, ext string) string {
	if root == "" {
		root = DefaultOutputRoot
	}
	return filepath.Join(root, string(ctx), "index."+ext)
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
