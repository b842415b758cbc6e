package config

import "github.com/teranos/uistate/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Lang {
	case LangGo, LangKotlin:
	default:
		return errors.WithHint(
			errors.Wrapf(errors.ErrUnknownLanguage, "lang %q", c.Lang),
			"supported languages are go and kotlin",
		)
	}

	if c.MaxPasses < 1 {
		return errors.Newf("max_passes must be >= 1, got %d", c.MaxPasses)
	}

	if c.Directive == "" {
		return errors.New("directive cannot be empty")
	}
	if c.Directive[0] == '/' || c.Directive[0] == ' ' {
		return errors.WithHint(
			errors.Newf("directive %q must not start with a slash or a space", c.Directive),
			"write the marker without the leading //, e.g. uistate:sealed",
		)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// 0 = regenerate on every event
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
