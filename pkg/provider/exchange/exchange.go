// Package exchange defines the currency exchange-rate lookup contract.
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when a provider cannot serve rates.
var ErrRateUnavailable = fmt.Errorf("exchange rates: %w", domain.ErrServiceUnavailable)

// RateSet holds every conversion rate from Base at a point in time.
type RateSet struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	UpdatedAt time.Time                  `json:"updatedAt"`
	Source    string                     `json:"source"`
}

// Rate returns the conversion rate from Base to code.
func (s *RateSet) Rate(code string) (decimal.Decimal, bool) {
	if code == s.Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.Rates[code]
	return r, ok
}

// Provider fetches live exchange rates.
type Provider interface {
	// Latest returns every rate for base.
	Latest(ctx context.Context, base string) (*RateSet, error)
	// Name identifies the provider in logs.
	Name() string
}
