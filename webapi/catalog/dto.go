package catalog

import "github.com/shopspring/decimal"

// CatalogInput is the request body for creating or replacing a product,
// account type or card type. Interest only applies to account types.
type CatalogInput struct {
	Name        string          `json:"name" validate:"required,notblank,max=50"`
	Description string          `json:"description" validate:"max=255"`
	Interest    decimal.Decimal `json:"interest" swaggertype:"number" validate:"gte=0"`
}
