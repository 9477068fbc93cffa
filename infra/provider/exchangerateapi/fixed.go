package exchangerateapi

import (
	"context"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/shopspring/decimal"
)

// Fixed serves a static rate table. It is used when no API key is
// configured.
type Fixed struct {
	rates map[string]map[string]decimal.Decimal
}

var _ exchange.Provider = (*Fixed)(nil)

// NewFixed returns a provider with a small EUR-based table. Other bases
// are derived by cross rates.
func NewFixed() *Fixed {
	eur := map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.08"),
		"GBP": decimal.RequireFromString("0.85"),
		"JPY": decimal.RequireFromString("162.50"),
		"CHF": decimal.RequireFromString("0.95"),
	}
	return &Fixed{rates: map[string]map[string]decimal.Decimal{"EUR": eur}}
}

func (f *Fixed) Name() string { return "fixed" }

func (f *Fixed) Latest(_ context.Context, base string) (*exchange.RateSet, error) {
	base = strings.ToUpper(base)
	eur := f.rates["EUR"]
	out := make(map[string]decimal.Decimal, len(eur)+1)
	switch {
	case base == "EUR":
		for k, v := range eur {
			out[k] = v
		}
	default:
		pivot, ok := eur[base]
		if !ok {
			return nil, exchange.ErrRateUnavailable
		}
		out["EUR"] = decimal.NewFromInt(1).DivRound(pivot, 8)
		for k, v := range eur {
			if k != base {
				out[k] = v.DivRound(pivot, 8)
			}
		}
	}
	return &exchange.RateSet{Base: base, Rates: out, UpdatedAt: time.Now().UTC(), Source: f.Name()}, nil
}
