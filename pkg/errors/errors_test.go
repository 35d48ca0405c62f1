package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("user")))
	assert.Equal(t, KindConflict, KindOf(Conflict("slot taken")))
	assert.Equal(t, KindInvalidTransition, KindOf(InvalidTransition("cancelled", "confirmed")))
	assert.Equal(t, KindUnavailable, KindOf(Unavailable(errors.New("conn refused"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking failed: %w", Conflict("slot taken"))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(nil, KindConflict))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "user not found", NotFound("user").Message)
	assert.Equal(t, "role must be one of: patient doctor", Validationf("role must be one of: %s", "patient doctor").Message)
}
