package cache

import (
	"context"
	"time"

	"github.com/amirasaad/backoffice/pkg/provider/exchange"
)

// RateCache caches exchange-rate sets by base currency. Get returns
// nil, nil on a miss.
type RateCache interface {
	Get(ctx context.Context, base string) (*exchange.RateSet, error)
	Set(ctx context.Context, set *exchange.RateSet, ttl time.Duration) error
	Delete(ctx context.Context, base string) error
}
