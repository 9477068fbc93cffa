// Package currency serves exchange rates and converts amounts, backed by
// a rate cache. Concurrent lookups for the same base share one provider
// call.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/backoffice/pkg/cache"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/mapper"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Conversion is the result of converting an amount.
type Conversion struct {
	Amount    decimal.Decimal
	From      string
	Converted decimal.Decimal
	To        string
	Rate      decimal.Decimal
	RateAt    time.Time
}

type Service struct {
	provider exchange.Provider
	cache    cache.RateCache
	ttl      time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

func New(
	provider exchange.Provider,
	rateCache cache.RateCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider: provider,
		cache:    rateCache,
		ttl:      ttl,
		logger:   logger.With("provider", provider.Name()),
	}
}

func normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !common.ValidCurrency(code) {
		return "", domain.NewValidationError("currency", "must be a 3-letter ISO 4217 code")
	}
	return code, nil
}

// Rates returns every rate for base, from the cache when fresh.
func (s *Service) Rates(ctx context.Context, base string) (*exchange.RateSet, error) {
	base, err := normalize(base)
	if err != nil {
		return nil, err
	}
	if set, err := s.cache.Get(ctx, base); err != nil {
		s.logger.Warn("Rate cache read failed", "base", base, "error", err)
	} else if set != nil {
		return set, nil
	}

	v, err, shared := s.group.Do(base, func() (any, error) {
		set, err := s.provider.Latest(ctx, base)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, set, s.ttl); err != nil {
			s.logger.Warn("Rate cache write failed", "base", base, "error", err)
		}
		return set, nil
	})
	if err != nil {
		s.logger.Error("Exchange rate lookup failed", "base", base, "error", err)
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", exchange.ErrRateUnavailable, err)
	}
	s.logger.Debug("Exchange rates fetched", "base", base, "shared", shared)
	return v.(*exchange.RateSet), nil
}

// RatesRead is Rates rendered for output.
func (s *Service) RatesRead(ctx context.Context, base string) (*dto.RatesRead, error) {
	set, err := s.Rates(ctx, base)
	if err != nil {
		return nil, err
	}
	return mapper.MapRatesToRead(set), nil
}

// Convert converts amount from one currency to another, rounding to
// cents.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	from, err := normalize(from)
	if err != nil {
		return nil, err
	}
	to, err = normalize(to)
	if err != nil {
		return nil, err
	}
	if from == to {
		return &Conversion{
			Amount: amount, From: from, Converted: amount, To: to,
			Rate: decimal.NewFromInt(1), RateAt: time.Now().UTC(),
		}, nil
	}
	set, err := s.Rates(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := set.Rate(to)
	if !ok {
		return nil, domain.NewValidationError("currency", fmt.Sprintf("%s is not supported", to))
	}
	return &Conversion{
		Amount:    amount,
		From:      from,
		Converted: common.RoundMoney(amount.Mul(rate)),
		To:        to,
		Rate:      rate,
		RateAt:    set.UpdatedAt,
	}, nil
}
