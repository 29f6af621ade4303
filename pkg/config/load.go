package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Load reads a configuration file and overlays it on [Default].
// The format is chosen by extension: .toml, .yaml or .yml.
// The result is validated before it is returned.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data in the given format ("toml", "yaml" or "yml") on top of [Default].
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
	return cfg, nil
}
