package binder_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/logger"
)

func manySites(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[Point(%d, z: %d, y: %d)] M%d\n", i, i+2, i+1, i)
	}
	return b.String()
}

func TestBindAllKeepsInputOrder(t *testing.T) {
	h := pointHarness(t, binder.Options{Workers: 4})
	file := parse(t, manySites(50))

	records, err := h.resolver.BindAll(context.Background(), file.Attributes)
	require.NoError(t, err)
	require.Len(t, records, 50)

	for i, rec := range records {
		require.NotNil(t, rec)
		assert.Same(t, file.Attributes[i], rec.Site())
		assert.False(t, rec.HasErrors())
		assert.Equal(t, []interface{}{int32(i), int32(i + 1), int32(i + 2), int32(3)}, values(rec.Positional()))
	}

	stats := h.resolver.PoolStats()
	assert.Equal(t, int64(50), stats.Acquired)
	assert.Equal(t, stats.Acquired, stats.Released)
}

func TestBindAllPoolBalancedOnErrors(t *testing.T) {
	h := catalogHarness(t, binder.Options{Workers: 2})
	file := parse(t, `[Missing] [Base] [Int("a")] [Int(a: 1, a: 2)] [Named(Nope = 1)] [Int(1)]`)

	records, err := h.resolver.BindAll(context.Background(), file.Attributes)
	require.NoError(t, err)
	require.Len(t, records, 6)
	for _, rec := range records[:5] {
		assert.True(t, rec.HasErrors(), rec.Site().String())
	}
	assert.False(t, records[5].HasErrors())

	stats := h.resolver.PoolStats()
	assert.Equal(t, int64(6), stats.Acquired)
	assert.Equal(t, stats.Acquired, stats.Released)
}

func TestBindAllCancelled(t *testing.T) {
	h := pointHarness(t, binder.Options{Workers: 1})
	file := parse(t, manySites(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := h.resolver.BindAll(ctx, file.Attributes)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, records, 5)
	for _, rec := range records {
		assert.Nil(t, rec)
	}
	assert.Zero(t, h.resolver.PoolStats().Acquired)
}

func TestBindAllLogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	defer func() { logger.Logger = prev }()

	h := pointHarness(t, binder.Options{})
	file := parse(t, "[Point(0, 1, 2)] [Missing]")
	_, err := h.resolver.BindAll(context.Background(), file.Attributes)
	require.NoError(t, err)

	summary := logs.FilterMessage("batch complete").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.Equal(t, int64(2), fields[logger.FieldCount])
	assert.Equal(t, int64(1), fields[logger.FieldErrors])
	assert.NotEmpty(t, fields[logger.FieldSession])
	assert.Equal(t, "binder.batch", fields[logger.FieldComponent])

	assert.Equal(t, 2, logs.FilterMessage("bound attribute").Len())
}

func TestRecordView(t *testing.T) {
	h := pointHarness(t, binder.Options{})
	rec := h.bindOne(t, "\n[Point(0, z: 2, y: 1)] M")

	v := rec.View()
	assert.Equal(t, "Point(0, z: 2, y: 1)", v.Attribute)
	assert.Equal(t, "t.cs", v.File)
	assert.Equal(t, 2, v.Line)
	assert.Equal(t, "PointAttribute", v.Class)
	assert.True(t, strings.HasPrefix(v.Constructor, "PointAttribute("))
	assert.Equal(t, []int{0, 2, 1, -1}, v.SourceIndices)
	assert.False(t, v.HasErrors)
	assert.False(t, v.Omitted)

	require.Len(t, v.Arguments, 4)
	var names, rendered []string
	for _, a := range v.Arguments {
		names = append(names, a.Name)
		rendered = append(rendered, a.Value)
		assert.Equal(t, "primitive", a.Kind)
	}
	assert.Equal(t, []string{"x", "y", "z", "w"}, names)
	assert.Equal(t, []string{"0", "1", "2", "3"}, rendered)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "source_indices:")
	var back binder.RecordView
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, v, back)

	raw, err := json.Marshal(binder.Views([]*binder.Record{rec, nil}))
	require.NoError(t, err)
	var decoded []binder.RecordView
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, v.Arguments, decoded[0].Arguments)
}
