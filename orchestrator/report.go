package orchestrator

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/teranos/typomatic/errors"
)

// Report summarizes one run.
type Report struct {
	Language string          `yaml:"language,omitempty"`
	Labels   []string        `yaml:"labels"`
	Contexts []ContextReport `yaml:"contexts"`
}

// ContextReport is one written output file.
type ContextReport struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Declarations []string `yaml:"declarations"`
}

// Empty reports whether the run emitted nothing.
func (r *Report) Empty() bool {
	return len(r.Labels) == 0
}

// WriteManifest writes the report as YAML to path.
func (r *Report) WriteManifest(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create manifest directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write manifest %s", path)
	}
	return nil
}
