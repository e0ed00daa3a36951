package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsCopiesMapAndKeepsStatus(t *testing.T) {
	src := map[string]string{"weight": "must be between 0 and 1"}
	err := Fields(src)
	src["weight"] = "mutated"

	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "must be between 0 and 1", err.Fields["weight"])
	assert.Contains(t, err.Error(), "weight: must be between 0 and 1")
	assert.Nil(t, ErrFieldValidation.Fields)
}

func TestIsMatchesClones(t *testing.T) {
	cloned := Clone(ErrNotFound, "grading period not found")
	wrapped := fmt.Errorf("outer: %w", cloned)

	assert.True(t, stdErrors.Is(wrapped, ErrNotFound))
	assert.False(t, stdErrors.Is(wrapped, ErrConflict))
	assert.True(t, stdErrors.Is(Field("code", "taken"), ErrFieldValidation))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(stdErrors.New("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrComputation, FromError(ErrComputation))
}
