package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistence(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Persistence("op", nil))
	})

	t.Run("wraps storage error", func(t *testing.T) {
		cause := errors.New("socket closed")
		err := Persistence("save ledger", cause)

		var pe *PersistenceError
		assert.True(t, errors.As(err, &pe))
		assert.Equal(t, "save ledger", pe.Op)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "save ledger: socket closed", err.Error())
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		notFound := fmt.Errorf("load: %w", ErrStudentNotFound)
		assert.Same(t, notFound, Persistence("op", notFound))
		assert.Equal(t, ErrVersionConflict, Persistence("op", ErrVersionConflict))
	})

	t.Run("does not double wrap", func(t *testing.T) {
		first := Persistence("inner", errors.New("boom"))
		assert.Same(t, first, Persistence("outer", first))
	})
}

func TestValidation(t *testing.T) {
	assert.NoError(t, Validation(nil))

	err := Validation(errors.New("name is required"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
}
