package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultLang       = LangGo
	DefaultMaxPasses  = 3
	DefaultDirective  = "uistate:sealed"
	DefaultDebounceMS = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("lang", DefaultLang)
	v.SetDefault("output", ".")
	v.SetDefault("sources", []string{"./..."})
	v.SetDefault("max_passes", DefaultMaxPasses)
	v.SetDefault("strict", false)
	v.SetDefault("directive", DefaultDirective)
	v.SetDefault("build_flags", []string{})

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}
