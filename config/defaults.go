package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Binder defaults
	v.SetDefault("binder.workers", 0)      // one per CPU
	v.SetDefault("binder.cache_size", 1024) // resolved attribute classes
	v.SetDefault("binder.early_pass", false)
	v.SetDefault("binder.defined_symbols", []string{})

	// Output defaults
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.color", true)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
