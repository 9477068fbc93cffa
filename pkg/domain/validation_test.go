package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	t.Run("no fields yields nil error", func(t *testing.T) {
		t.Parallel()
		v := &domain.ValidationError{}
		v.Check(true, "name", "must not be blank")
		assert.NoError(t, v.Err())
	})

	t.Run("collects every failing field", func(t *testing.T) {
		t.Parallel()
		v := &domain.ValidationError{}
		v.Check(false, "name", "must not be blank")
		v.Check(false, "amount", "must be at least 0.01")
		err := v.Err()
		require.Error(t, err)
		assert.Len(t, v.Fields, 2)
		assert.Equal(t, "validation failed: name: must not be blank; amount: must be at least 0.01", err.Error())
	})

	t.Run("matches ErrValidation through wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("create movement: %w", domain.NewValidationError("amount", "must be positive"))
		assert.ErrorIs(t, err, domain.ErrValidation)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "amount", verr.Fields[0].Field)
	})
}
