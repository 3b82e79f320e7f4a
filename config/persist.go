package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typomatic/errors"
)

const fileHeader = "# typomatic configuration\n"

// Marshal renders cfg as "toml" or "yaml".
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "", "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte(fileHeader), data...), nil

	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte(fileHeader), data...), nil

	default:
		return nil, errors.WithHint(
			errors.NewInvalidConfigError("unsupported format: %s", format),
			"supported formats: toml, yaml")
	}
}

// WriteTemplate writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"pass --force to overwrite it")
		}
	}

	data, err := Marshal(Default(), "toml")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
