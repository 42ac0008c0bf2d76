package apperr

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errThingMissing = New(ErrNotFound, "THING_NOT_FOUND", "thing not found")

func TestError_MatchesSentinelAndKind(t *testing.T) {
	err := fmt.Errorf("%w: id=%s", errThingMissing, "42")

	assert.ErrorIs(t, err, errThingMissing)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrConflict))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))

	coded, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "THING_NOT_FOUND", coded.Code)
}

func TestError_WithDetailsKeepsIdentity(t *testing.T) {
	err := errThingMissing.WithDetails(map[string]int{"borrowed": 3})

	assert.ErrorIs(t, err, errThingMissing)
	assert.Nil(t, errThingMissing.Details, "sentinel must not be mutated")
	assert.Equal(t, map[string]int{"borrowed": 3}, err.Details)
}

func TestValidation(t *testing.T) {
	assert.NoError(t, Validation(nil))

	fields := validation.Errors{"title": errors.New("cannot be blank")}
	err := Validation(fields)

	assert.True(t, IsValidation(err))
	coded, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, coded.Code)
	assert.Equal(t, fields, coded.Details)

	err = Validationf("dueDate is required")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "dueDate is required", err.Error())
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
