package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/attrbind/config"
	"github.com/teranos/attrbind/errors"
)

const pointFixture = `
types:
  - name: PointAttribute
    base: Attribute
    constructors:
      - params:
          - {name: x, type: int}
          - {name: y, type: int, default: 7}
sources:
  - path: point.cs
    text: |
      [Point(1)] A
      [Point(y: 2, x: 3)] B
`

const brokenFixture = `
types:
  - {name: PointAttribute, base: Attribute}
sources:
  - path: point.cs
    text: |
      [Point("nope")] A
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func settings(format string) bindSettings {
	return bindSettings{format: format}
}

func TestRunBindText(t *testing.T) {
	var out bytes.Buffer
	err := runBind(context.Background(), &out, writeFixture(t, pointFixture), settings(config.FormatText))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "point.cs:1 [Point(1)] ok")
	assert.Contains(t, text, "point.cs:2 [Point(y: 2, x: 3)] ok")
	assert.Contains(t, text, "PointAttribute(")
	assert.Contains(t, text, "default")
	assert.Contains(t, text, "0 error(s), 0 warning(s)")
}

func TestRunBindStructured(t *testing.T) {
	path := writeFixture(t, pointFixture)

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runBind(context.Background(), &out, path, settings(config.FormatJSON)))

		var r report
		require.NoError(t, json.Unmarshal(out.Bytes(), &r))
		assert.Equal(t, path, r.Fixture)
		require.Len(t, r.Records, 2)
		assert.Equal(t, []int{0, -1}, r.Records[0].SourceIndices)
		assert.Equal(t, []int{1, 0}, r.Records[1].SourceIndices)
		assert.Equal(t, "7", r.Records[0].Arguments[1].Value)
		assert.Empty(t, r.Diagnostics)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runBind(context.Background(), &out, path, settings(config.FormatYAML)))

		var r map[string]interface{}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &r))
		assert.Len(t, r["records"], 2)
	})

	t.Run("toml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runBind(context.Background(), &out, path, settings(config.FormatTOML)))

		var r map[string]interface{}
		require.NoError(t, toml.Unmarshal(out.Bytes(), &r))
		assert.Len(t, r["records"], 2)
	})

	t.Run("unsupported", func(t *testing.T) {
		var out bytes.Buffer
		err := runBind(context.Background(), &out, path, settings("xml"))
		require.Error(t, err)
		assert.NotEmpty(t, errors.GetAllHints(err))
	})
}

func TestRunBindReportsErrors(t *testing.T) {
	var out bytes.Buffer
	err := runBind(context.Background(), &out, writeFixture(t, brokenFixture), settings(config.FormatText))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBindFailed))

	text := out.String()
	assert.Contains(t, text, "error")
	assert.Contains(t, text, "[overload-resolution-failed]")
	assert.Contains(t, text, "1 error(s)")
}

func TestRunBindDefinedSymbols(t *testing.T) {
	path := writeFixture(t, `
types:
  - {name: TraceAttribute, base: Attribute, conditional: [TRACE]}
sources:
  - {path: t.cs, text: "[Trace] A"}
`)

	var out bytes.Buffer
	require.NoError(t, runBind(context.Background(), &out, path, settings(config.FormatText)))
	assert.Contains(t, out.String(), "omitted")

	out.Reset()
	s := settings(config.FormatText)
	s.defined = []string{"TRACE"}
	require.NoError(t, runBind(context.Background(), &out, path, s))
	assert.NotContains(t, out.String(), "omitted")
}

func TestRunBindMissingFixture(t *testing.T) {
	var out bytes.Buffer
	err := runBind(context.Background(), &out, filepath.Join(t.TempDir(), "none.yaml"), settings(config.FormatText))
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrBindFailed))
	assert.Empty(t, out.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	VersionCmd.SetOut(&out)
	require.NoError(t, VersionCmd.Flags().Set("json", "true"))
	defer func() { _ = VersionCmd.Flags().Set("json", "false") }()

	require.NoError(t, VersionCmd.RunE(VersionCmd, nil))
	var info map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["platform"])
}
