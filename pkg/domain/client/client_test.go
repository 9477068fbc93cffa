package client_test

import (
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() client.Profile {
	return client.Profile{
		DNI:     "12345678z",
		Email:   "Ana@Example.com",
		Name:    "Ana",
		Surname: "García",
		Phone:   "+34 600 000 000",
	}
}

func TestValidDNI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dni  string
		want bool
	}{
		{"12345678Z", true},
		{"00000000T", true},
		{"11111111H", true},
		{"12345678A", false},
		{"1234567Z", false},
		{"ABCDEFGHZ", false},
	}
	for _, tc := range tests {
		t.Run(tc.dni, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, client.ValidDNI(tc.dni))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	c, err := client.New(userID, validProfile())
	require.NoError(t, err)
	assert.Equal(t, userID, c.UserID)
	assert.Equal(t, "12345678Z", c.DNI)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.NotEmpty(t, c.PublicID)
	assert.False(t, c.IsDeleted)
}

func TestNew_ReportsEveryInvalidField(t *testing.T) {
	t.Parallel()

	_, err := client.New(uuid.Nil, client.Profile{DNI: "123", Email: "x"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, f := range []string{"user", "dni", "email", "name", "surname"} {
		assert.True(t, fields[f], "missing field %s", f)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	c, err := client.New(uuid.New(), validProfile())
	require.NoError(t, err)
	owner := c.UserID

	p := validProfile()
	p.DNI = "00000000t"
	p.Address = "Calle Mayor 1"
	require.NoError(t, c.Update(p))
	assert.Equal(t, "00000000T", c.DNI)
	assert.Equal(t, "Calle Mayor 1", c.Address)
	assert.Equal(t, owner, c.UserID)

	p.Name = ""
	assert.ErrorIs(t, c.Update(p), domain.ErrValidation)
}
