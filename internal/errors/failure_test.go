package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAsFailure(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, AsFailure(nil))
	})

	t.Run("http error", func(t *testing.T) {
		t.Parallel()

		original := NotFound("Resource not found")
		got := AsFailure(original)
		require.Same(t, original, got)
	})

	t.Run("wrapped http error", func(t *testing.T) {
		t.Parallel()

		original := BadRequest("Validation failed", nil)
		got := AsFailure(fmt.Errorf("handling request: %w", original))
		require.Same(t, original, got)
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		original := stdErrors.New("boom")
		got := AsFailure(original)

		opaque, ok := got.(*OpaqueFailure)
		require.True(t, ok)
		require.Equal(t, "boom", opaque.Error())
		require.ErrorIs(t, opaque, original)
		require.NotEmpty(t, opaque.Stack)
	})

	t.Run("pkg errors stack is preferred", func(t *testing.T) {
		t.Parallel()

		original := pkgerrors.New("inventory cache returned an inconsistent snapshot")
		got := AsFailure(pkgerrors.Wrap(original, "loading inventory"))

		opaque, ok := got.(*OpaqueFailure)
		require.True(t, ok)
		require.Equal(t, "loading inventory: inventory cache returned an inconsistent snapshot", opaque.Error())
		require.Contains(t, opaque.Stack, "failure_test.go")
	})

	t.Run("opaque failure is returned as is", func(t *testing.T) {
		t.Parallel()

		original := &OpaqueFailure{Err: stdErrors.New("boom"), Stack: "stack"}
		require.Same(t, original, AsFailure(original))
	})
}

func TestFromPanic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "string", value: "kaboom", expected: "panic: kaboom"},
		{name: "error", value: stdErrors.New("kaboom"), expected: "panic: kaboom"},
		{name: "int", value: 42, expected: "panic: 42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := FromPanic(tc.value)
			require.Equal(t, tc.expected, f.Error())
			require.NotEmpty(t, f.Stack)
		})
	}

	cause := stdErrors.New("cause")
	require.ErrorIs(t, FromPanic(cause), cause)
}

func TestOpaqueFailure_NilErr(t *testing.T) {
	t.Parallel()

	f := &OpaqueFailure{}
	require.Equal(t, "unknown failure", f.Error())
	require.NoError(t, f.Unwrap())
}
