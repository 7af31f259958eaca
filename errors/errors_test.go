package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "loading %s", "fixture.yaml")

	assert.Contains(t, wrapped.Error(), "loading fixture.yaml")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "declare the type first")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "declare the type first", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsInvalidFixtureError(nil))
	assert.False(t, IsUnknownTypeError(nil))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  string
	}{
		{
			name:  "invalid fixture",
			err:   NewInvalidFixtureError("type %q has no name", "#3"),
			check: IsInvalidFixtureError,
			want:  `type "#3" has no name`,
		},
		{
			name:  "unknown type",
			err:   NewUnknownTypeError("Widget"),
			check: IsUnknownTypeError,
			want:  `"Widget"`,
		},
		{
			name:  "wrapped unknown type",
			err:   Wrap(NewUnknownTypeError("Gadget"), "parameter x"),
			check: IsUnknownTypeError,
			want:  "parameter x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.Contains(t, tt.err.Error(), tt.want)
		})
	}

	assert.True(t, Is(NewInvalidConfigError("binder.workers must be >= 0"), ErrInvalidConfig))
	assert.False(t, IsUnknownTypeError(NewInvalidFixtureError("x")))
}

func ExampleWrap() {
	baseErr := New("unexpected token")
	err := Wrap(baseErr, "failed to parse attribute source")
	fmt.Println(err)
	// Output: failed to parse attribute source: unexpected token
}
