// Package config loads attrbind configuration using Viper.
//
// Sources (lowest to highest precedence): defaults, user config
// (~/.attrbind/attrbind.toml), project config (attrbind.toml found by
// walking up from the working directory), ATTRBIND_* environment variables.
package config

// Config is the attrbind configuration
type Config struct {
	Binder BinderConfig `mapstructure:"binder" json:"binder" yaml:"binder" toml:"binder"`
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// BinderConfig controls attribute binding
type BinderConfig struct {
	// Workers bounds parallel binding in BindAll. 0 means one worker per CPU.
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" toml:"workers"`

	// CacheSize is the capacity of the attribute-class resolution cache
	CacheSize int `mapstructure:"cache_size" json:"cache_size" yaml:"cache_size" toml:"cache_size"`

	// EarlyPass binds as the pre-metadata pass: contextual defaults and
	// conditional omission are skipped
	EarlyPass bool `mapstructure:"early_pass" json:"early_pass" yaml:"early_pass" toml:"early_pass"`

	// DefinedSymbols are preprocessor symbols active in every fixture tree
	// in addition to the ones the fixture declares
	DefinedSymbols []string `mapstructure:"defined_symbols" json:"defined_symbols" yaml:"defined_symbols" toml:"defined_symbols"`
}

// OutputConfig controls how records are rendered
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format" toml:"format"` // text, json, yaml, toml
	Color  bool   `mapstructure:"color" json:"color" yaml:"color" toml:"color"`
}

// LogConfig controls logger initialization
type LogConfig struct {
	JSON      bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" json:"verbosity" yaml:"verbosity" toml:"verbosity"`
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ConfigFileName is the project and user config file name
const ConfigFileName = "attrbind.toml"
