package product_test

import (
	"testing"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		details product.Details
		want    string
		fields  []string
	}{
		{
			name:    "valid",
			details: product.Details{Name: " savings ", Description: "Savings account", Interest: decimal.RequireFromString("1.25")},
			want:    "SAVINGS",
		},
		{
			name:    "zero interest",
			details: product.Details{Name: "CURRENT", Interest: decimal.Zero},
			want:    "CURRENT",
		},
		{
			name:    "blank name and negative interest",
			details: product.Details{Name: "  ", Interest: decimal.NewFromInt(-1)},
			fields:  []string{"name", "interest"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			at, err := product.NewAccountType(tc.details)
			if len(tc.fields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.want, at.Name)
				assert.NotEmpty(t, at.PublicID)
				assert.False(t, at.IsDeleted)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tc.fields, got)
		})
	}
}

func TestNewProductAndCardType(t *testing.T) {
	t.Parallel()

	p, err := product.NewProduct(product.Details{Name: "mortgage", Description: "Home loan"})
	require.NoError(t, err)
	assert.Equal(t, "MORTGAGE", p.Name)
	assert.Equal(t, "Home loan", p.Description)

	c, err := product.NewCardType(product.Details{Name: "debit"})
	require.NoError(t, err)
	assert.Equal(t, "DEBIT", c.Name)

	_, err = product.NewCardType(product.Details{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccountTypeUpdate(t *testing.T) {
	t.Parallel()

	at, err := product.NewAccountType(product.Details{Name: "savings", Interest: decimal.NewFromInt(1)})
	require.NoError(t, err)
	id, created := at.ID, at.CreatedAt

	require.NoError(t, at.Update(product.Details{Name: "premium", Description: "d", Interest: decimal.NewFromInt(2)}))
	assert.Equal(t, "PREMIUM", at.Name)
	assert.True(t, at.Interest.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, id, at.ID)
	assert.Equal(t, created, at.CreatedAt)

	err = at.Update(product.Details{Name: "premium", Interest: decimal.NewFromInt(-3)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, at.Interest.Equal(decimal.NewFromInt(2)))
}

func TestMarkDeleted(t *testing.T) {
	t.Parallel()

	c, err := product.NewCardType(product.Details{Name: "credit"})
	require.NoError(t, err)
	c.MarkDeleted()
	assert.True(t, c.IsDeleted)
	assert.True(t, c.Entry().IsDeleted)
}
