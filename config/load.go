package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/uistate/errors"
)

// FileName is the project configuration file
const FileName = "uistate.toml"

// EnvPrefix prefixes environment overrides, e.g. UISTATE_LANG, UISTATE_WATCH_DEBOUNCE_MS
const EnvPrefix = "UISTATE"

// NewViper builds a Viper instance with defaults, the nearest uistate.toml
// above dir, and environment variables. It returns the config file used, or
// "" when none was found.
func NewViper(dir string) (*viper.Viper, string, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	path := FindProjectConfig(dir)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	return v, path, nil
}

// BindFlags makes the given command-line flags override their config keys.
// keys maps config key to flag name; flags that were not registered are
// skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", name)
		}
	}
	return nil
}

// LoadWithViper decodes and validates the configuration held by v.
// build_flags given as one string, as UISTATE_BUILD_FLAGS is, are split with
// shell quoting rules.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	if raw, ok := v.Get("build_flags").(string); ok {
		flags, err := shellquote.Split(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid build_flags %q", raw)
		}
		v.Set("build_flags", flags)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return LoadWithViper(v)
}

// FindProjectConfig searches for uistate.toml by walking up the directory
// tree from dir (the working directory when dir is empty). Returns the path
// of the first file found, or "".
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
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}
