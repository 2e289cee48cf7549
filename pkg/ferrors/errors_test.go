package ferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SetsSeverityFromCode(t *testing.T) {
	fatal := New(ErrTruncated, "short read")
	assert.Equal(t, SeverityFatal, fatal.Severity)

	warning := New(ErrOrderNotFound, "missing order")
	assert.Equal(t, SeverityWarning, warning.Severity)
}

func TestWrap_PreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("eof")
	wrapped := Wrap(cause, ErrTruncated, "short read on header")
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, Wrap(nil, ErrTruncated, "unused"))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrUnknownEvent, "bad type")))
	assert.False(t, IsFatal(New(ErrDuplicateOrder, "dup")))
	assert.False(t, IsFatal(errors.New("plain error")))
}
