// Package config loads uistate settings from defaults, uistate.toml, the
// environment and command-line flags, in increasing precedence.
package config

// Config represents the uistate configuration
type Config struct {
	Lang       string      `mapstructure:"lang" toml:"lang"`               // target language: go or kotlin
	Output     string      `mapstructure:"output" toml:"output"`           // directory relative output paths resolve against
	Sources    []string    `mapstructure:"sources" toml:"sources"`         // package patterns or manifest files to read
	MaxPasses  int         `mapstructure:"max_passes" toml:"max_passes"`   // passes before deferred roots are reported
	Strict     bool        `mapstructure:"strict" toml:"strict"`           // warnings fail the build too
	Directive  string      `mapstructure:"directive" toml:"directive"`     // marker comment on Go roots, without "//"
	BuildFlags []string    `mapstructure:"build_flags" toml:"build_flags"` // passed to the go command when loading packages
	Log        LogConfig   `mapstructure:"log" toml:"log"`
	Watch      WatchConfig `mapstructure:"watch" toml:"watch"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`           // JSON lines instead of console output
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // 0 warnings, 1 info, 2 debug
}

// WatchConfig configures `uistate watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // quiet period before regenerating
}

// Supported target languages
const (
	LangGo     = "go"
	LangKotlin = "kotlin"
)
