package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/typomatic/emitter"
	"github.com/teranos/typomatic/loader"
	"github.com/teranos/typomatic/orchestrator"
	"github.com/teranos/typomatic/resolver"
	"github.com/teranos/typomatic/schema"
	"github.com/teranos/typomatic/watch"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Project defaults
	v.SetDefault("project.root", ".")
	v.SetDefault("project.patterns", loader.DefaultPatterns)
	v.SetDefault("project.exclude", orchestrator.DefaultExcludes)
	v.SetDefault("project.build_tags", []string{})

	// Discovery defaults
	v.SetDefault("discovery.base_type", schema.BaseType)
	v.SetDefault("discovery.sub_namespace", resolver.DefaultSubNamespace)

	// Generate defaults: nothing selected means an empty run
	v.SetDefault("generate.serializers", []string{})
	v.SetDefault("generate.all", false)
	v.SetDefault("generate.incremental", false)
	v.SetDefault("generate.manifest", "")

	// Render defaults
	v.SetDefault("render.trim", false)
	v.SetDefault("render.suffix", emitter.DefaultSuffix)
	v.SetDefault("render.camelize", false)
	v.SetDefault("render.annotations", false)
	v.SetDefault("render.enum_choices", false)
	v.SetDefault("render.enum_values", false)
	v.SetDefault("render.enum_keys", false)
	v.SetDefault("render.output", emitter.DefaultOutputRoot)

	// Watch defaults
	v.SetDefault("watch.debounce_ms", int(watch.DefaultDebounce.Milliseconds()))
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return cfg
}
