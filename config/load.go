package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"

	"github.com/teranos/typomatic/errors"
)

// SerializersEnv lists specifiers as a shell-quoted, space or comma
// separated string: TYPOMATIC_SERIALIZERS="billing users.AccountSerializer"
const SerializersEnv = EnvPrefix + "_SERIALIZERS"

// Load reads configuration. configFile, when set, must exist; otherwise
// typomatic.toml is searched for from startDir upward. An empty startDir
// means the working directory.
func Load(configFile, startDir string) (*Config, error) {
	v, source, err := NewViper(configFile, startDir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	if err := applySerializersEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewViper builds a viper instance with defaults, TYPOMATIC_* environment
// binding and the project config file merged in. It returns the path of the
// file read, if any.
func NewViper(configFile, startDir string) (*viper.Viper, string, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	source := configFile
	if source == "" {
		source = FindProjectConfig(startDir)
	}
	if source == "" {
		return v, "", nil
	}

	v.SetConfigFile(source)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, "", errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "failed to read config file %s: %v", source, err),
			"run 'typomatic config init' to write a fresh "+FileName)
	}
	return v, source, nil
}

// LoadWithViper decodes configuration from a provided viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// FindProjectConfig searches for typomatic.toml by walking up the directory
// tree from dir. Returns the path of the first file found, or "".
func FindProjectConfig(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// applySerializersEnv overrides generate.serializers from SerializersEnv
func applySerializersEnv(cfg *Config) error {
	raw, ok := os.LookupEnv(SerializersEnv)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	specs, err := SplitSpecifiers(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidConfig, "%s: %v", SerializersEnv, err)
	}
	cfg.Generate.Serializers = specs
	return nil
}

// SplitSpecifiers splits shell-quoted words and then commas:
// `billing "users.AccountSerializer",blog` -> [billing users.AccountSerializer blog]
func SplitSpecifiers(raw string) ([]string, error) {
	words, err := shellquote.Split(raw)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, word := range words {
		for _, part := range strings.Split(word, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}
