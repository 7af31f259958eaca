package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Logger
			defer func() { Logger = prev; JSONOutput = false }()

			Logger = nil
			require.NoError(t, Initialize(tt.jsonOutput))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestInitializeWithLevelFiltersDebug(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	require.NoError(t, InitializeWithLevel(false, zapcore.WarnLevel))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestNilLoggerWrappers(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	Logger = nil
	assert.NotPanics(t, func() {
		Infow("x")
		Warnw("x")
		Errorw("x")
		Debugw("x")
		Cleanup()
	})
}

func TestComponentLoggerName(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	defer func() { Logger = prev }()
	Logger = zap.New(core).Sugar()

	ComponentLogger("binder.batch").Infow("dispatched", FieldCount, 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "binder.batch", entries[0].LoggerName)
	assert.Equal(t, int64(3), entries[0].ContextMap()[FieldCount])
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := WithSession(context.Background(), "sess-1")
	ctx = WithComponent(ctx, "cli")

	LoggerFromContext(ctx, base).Infow("hello")
	LoggerFromContext(context.Background(), base).Infow("bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "sess-1", entries[0].ContextMap()[FieldSession])
	assert.Equal(t, "cli", entries[0].ContextMap()[FieldComponent])
	assert.Empty(t, entries[1].ContextMap())
}

func TestChildLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	child := ChildLogger(zap.New(core).Sugar(), FieldAttribute, "Obsolete")
	child.Infow("bound")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Obsolete", logs.All()[0].ContextMap()[FieldAttribute])
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}

	assert.True(t, ShouldLogTrace(3))
	assert.False(t, ShouldLogTrace(2))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-2))
}
