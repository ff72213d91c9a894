package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentityForIs(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrConflict))
	assert.Equal(t, "student not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, ErrValidation.Code, http.StatusBadRequest, "invalid payload")

	assert.Equal(t, "invalid payload: boom", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrValidation))
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	assert.Nil(t, FromError(nil))

	plain := FromError(fmt.Errorf("oops"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)

	wrapped := FromError(fmt.Errorf("ctx: %w", ErrConflict))
	assert.Equal(t, ErrConflict.Code, wrapped.Code)
}
