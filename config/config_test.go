package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/attrbind/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance, no user or project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Binder.Workers)
	assert.Equal(t, 1024, cfg.Binder.CacheSize)
	assert.False(t, cfg.Binder.EarlyPass)
	assert.Empty(t, cfg.Binder.DefinedSymbols)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[binder]
workers = 4
early_pass = true
defined_symbols = ["DEBUG", "TRACE"]

[output]
format = "yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Binder.Workers)
	assert.True(t, cfg.Binder.EarlyPass)
	assert.Equal(t, []string{"DEBUG", "TRACE"}, cfg.Binder.DefinedSymbols)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	// Untouched keys keep their defaults
	assert.Equal(t, 1024, cfg.Binder.CacheSize)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_ProjectConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("[binder]\ncache_size = 64\n"), 0o644))

	t.Chdir(nested)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ATTRBIND_OUTPUT_FORMAT", "json")

	Reset()
	defer Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Binder.CacheSize)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, "json", GetString("output.format"))
	assert.Equal(t, 64, GetInt("binder.cache_size"))

	files := FilesUsed()
	require.Len(t, files, 1)
	assert.Equal(t, ConfigFileName, filepath.Base(files[0]))

	// Cached until Reset
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Binder: BinderConfig{CacheSize: 8},
			Output: OutputConfig{Format: FormatText},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero workers is valid (one per CPU)", mutate: func(c *Config) { c.Binder.Workers = 0 }},
		{name: "negative workers", mutate: func(c *Config) { c.Binder.Workers = -1 }, wantErr: "binder.workers"},
		{name: "zero cache size", mutate: func(c *Config) { c.Binder.CacheSize = 0 }, wantErr: "binder.cache_size"},
		{name: "empty symbol", mutate: func(c *Config) { c.Binder.DefinedSymbols = []string{"A", ""} }, wantErr: "defined_symbols"},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "xml" }, wantErr: "output.format"},
		{name: "negative verbosity", mutate: func(c *Config) { c.Log.Verbosity = -2 }, wantErr: "log.verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestValidate_FormatHint(t *testing.T) {
	cfg := Config{Binder: BinderConfig{CacheSize: 1}, Output: OutputConfig{Format: "xml"}}
	hints := errors.GetAllHints(cfg.Validate())
	require.Len(t, hints, 1)
	assert.Contains(t, hints[0], "json")
}
