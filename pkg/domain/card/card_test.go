package card_test

import (
	"testing"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/card"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	utils.SetPasswordCost(bcrypt.MinCost)
	m.Run()
}

func TestValidNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		number string
		want   bool
	}{
		{"4111111111111111", true},
		{"4012888888881881", true},
		{"4111111111111112", false},
		{"4111", false},
		{"41111111111111a1", false},
	}
	for _, tc := range tests {
		t.Run(tc.number, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, card.ValidNumber(tc.number))
		})
	}
}

func TestGenerateNumber(t *testing.T) {
	t.Parallel()
	for range 50 {
		n := card.GenerateNumber()
		require.Len(t, n, 16)
		require.True(t, card.ValidNumber(n), n)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	c, err := card.New(uuid.New(), uuid.New(), "1234")
	require.NoError(t, err)
	assert.True(t, card.ValidNumber(c.CardNumber))
	assert.NotEqual(t, "1234", c.Pin)
	assert.True(t, c.CheckPin("1234"))
	assert.True(t, c.ExpiresAt.After(c.CreatedAt))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(c.ExpiresAt))
}

func TestNewWithNumber_Invalid(t *testing.T) {
	t.Parallel()

	_, err := card.NewWithNumber(uuid.New(), uuid.Nil, "4111 1111 1111 1112", "12a4")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestMask(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "************1111", card.Mask("4111111111111111"))
	assert.Equal(t, "123", card.Mask("123"))
}

func TestChangePin(t *testing.T) {
	t.Parallel()

	c, err := card.New(uuid.New(), uuid.New(), "1234")
	require.NoError(t, err)
	require.NoError(t, c.ChangePin("9876"))
	assert.True(t, c.CheckPin("9876"))
	assert.ErrorIs(t, c.ChangePin("98"), domain.ErrValidation)
}
