package csrf_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskhub/webcore/core/csrf"
)

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		csrf.ErrMissingToken,
		csrf.ErrMalformedToken,
		csrf.ErrNotFoundOrExpired,
		csrf.ErrMismatch,
	} {
		assert.True(t, csrf.IsValidationError(err), err.Error())
		assert.True(t, csrf.IsValidationError(fmt.Errorf("wrapped: %w", err)))
	}

	assert.False(t, csrf.IsValidationError(csrf.ErrTokenGeneration))
	assert.False(t, csrf.IsValidationError(csrf.ErrPersistToken))
	assert.False(t, csrf.IsValidationError(errors.New("connection refused")))
	assert.False(t, csrf.IsValidationError(nil))
}
