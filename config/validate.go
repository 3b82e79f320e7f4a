package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/typomatic/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Project.Root == "" {
		return errors.NewInvalidConfigError("project.root cannot be empty (omit for \".\")")
	}
	for _, p := range c.Project.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.NewInvalidConfigError("project.patterns cannot contain empty patterns")
		}
	}
	for _, glob := range c.Project.Exclude {
		if !doublestar.ValidatePattern(glob) {
			return errors.NewInvalidConfigError("project.exclude has an invalid glob %q", glob)
		}
	}

	// Base type must be "<import path>.<Name>"
	dot := strings.LastIndex(c.Discovery.BaseType, ".")
	if dot <= 0 || dot == len(c.Discovery.BaseType)-1 {
		return errors.WithHint(
			errors.NewInvalidConfigError("discovery.base_type must be a qualified type name, got %q", c.Discovery.BaseType),
			"for example github.com/teranos/typomatic/schema.Serializer")
	}
	if c.Discovery.SubNamespace == "" {
		return errors.NewInvalidConfigError("discovery.sub_namespace cannot be empty (omit for \"serializers\")")
	}
	for _, seg := range strings.Split(c.Discovery.SubNamespace, ".") {
		if seg == "" {
			return errors.NewInvalidConfigError("discovery.sub_namespace has an empty segment: %q", c.Discovery.SubNamespace)
		}
	}

	if c.Render.OutputRoot == "" {
		return errors.NewInvalidConfigError("render.output cannot be empty (omit for \"./types\")")
	}
	if c.Render.TrimSuffix && c.Render.Suffix == "" {
		return errors.NewInvalidConfigError("render.suffix cannot be empty when render.trim is set")
	}

	// Watch debounce: 0 = default, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidConfigError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
