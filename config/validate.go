package config

import "github.com/teranos/attrbind/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Workers: 0 = one per CPU, negative = invalid
	if c.Binder.Workers < 0 {
		return errors.NewInvalidConfigError("binder.workers must be >= 0, got %d", c.Binder.Workers)
	}

	// golang-lru rejects non-positive sizes
	if c.Binder.CacheSize <= 0 {
		return errors.NewInvalidConfigError("binder.cache_size must be > 0, got %d", c.Binder.CacheSize)
	}

	for _, sym := range c.Binder.DefinedSymbols {
		if sym == "" {
			return errors.NewInvalidConfigError("binder.defined_symbols cannot contain empty names")
		}
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
	default:
		return errors.WithHint(
			errors.NewInvalidConfigError("output.format %q is not supported", c.Output.Format),
			"use one of: text, json, yaml, toml",
		)
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidConfigError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}
