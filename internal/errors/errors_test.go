package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CategorySync, SeverityFatal, "mirror failed")
	assert.Equal(t, "sync (fatal): mirror failed", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), CategoryFileSystem, SeverityFatal, "copy failed")
	assert.Equal(t, "filesystem (fatal): copy failed: disk full", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, CategorySource, SeverityFatal, "cannot read source")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestMissingSourceNamesPath(t *testing.T) {
	err := MissingSource("engine", "/srv/checkouts/engine", nil)
	require.True(t, IsFatal(err))
	assert.True(t, IsCategory(err, CategorySource))
	assert.Contains(t, err.Error(), "engine")
	assert.Contains(t, err.Error(), "/srv/checkouts/engine")
	assert.Equal(t, "engine", err.Context["source"])
	assert.Equal(t, "/srv/checkouts/engine", err.Context["path"])
}

func TestClassificationOfForeignErrors(t *testing.T) {
	plain := fmt.Errorf("plain")
	assert.False(t, IsFatal(plain))
	assert.False(t, IsCategory(plain, CategorySync))
	assert.Equal(t, CategoryInternal, GetCategory(plain))
}

func TestWithContext(t *testing.T) {
	err := New(CategoryConfig, SeverityError, "bad value").WithContext("key", "destination")
	assert.Equal(t, "destination", err.Context["key"])
}
