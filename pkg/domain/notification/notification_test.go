package notification_test

import (
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	md := map[string]string{"iban": "ES9121000418450200051332"}
	n, err := notification.New(userID, notification.TypeAccountCreated, " Account opened ", md)
	require.NoError(t, err)
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, "Account opened", n.Message)
	assert.NotEmpty(t, n.PublicID)
	assert.False(t, n.CreatedAt.IsZero())

	md["iban"] = "changed"
	assert.Equal(t, "ES9121000418450200051332", n.Metadata["iban"])
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := notification.New(uuid.Nil, "", "", nil)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestErrDeliveryFailed(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, notification.ErrDeliveryFailed, domain.ErrServiceUnavailable)
}
