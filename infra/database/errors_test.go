package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	other := errors.New("some other error")
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{name: "nil error returns nil", input: nil, expected: nil},
		{name: "duplicate key maps to ErrAlreadyExists", input: gorm.ErrDuplicatedKey, expected: domain.ErrAlreadyExists},
		{name: "record not found maps to ErrNotFound", input: gorm.ErrRecordNotFound, expected: domain.ErrNotFound},
		{name: "foreign key maps to ErrNotFound", input: gorm.ErrForeignKeyViolated, expected: domain.ErrNotFound},
		{name: "non-GORM error returns original", input: other, expected: other},
		{
			name:     "joined duplicate key maps correctly",
			input:    errors.Join(errors.New("outer error"), gorm.ErrDuplicatedKey),
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "wrapped foreign key maps to ErrNotFound",
			input:    fmt.Errorf("insert cards: %w", gorm.ErrForeignKeyViolated),
			expected: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			if tt.expected == nil {
				require.NoError(t, result)
				return
			}
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_DropsDriverText(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("UNIQUE constraint failed: users.username: %w", gorm.ErrDuplicatedKey)
	assert.Equal(t, domain.ErrAlreadyExists, MapGormErrorToDomain(err))
	assert.NotContains(t, MapGormErrorToDomain(err).Error(), "users.username")
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WrapError(func() error { return nil }))
	assert.ErrorIs(t, WrapError(func() error { return gorm.ErrRecordNotFound }), domain.ErrNotFound)
}

func TestExpectAffected(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ExpectAffected(&gorm.DB{RowsAffected: 0}), domain.ErrNotFound)
	assert.NoError(t, ExpectAffected(&gorm.DB{RowsAffected: 1}))
	assert.ErrorIs(t, ExpectAffected(&gorm.DB{Error: gorm.ErrDuplicatedKey}), domain.ErrAlreadyExists)
}
