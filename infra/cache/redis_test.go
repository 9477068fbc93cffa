//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(tb testing.TB) *redis.Client {
	tb.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	tb.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRateCache(t *testing.T) {
	ctx := context.Background()
	c := NewRedisRateCache(setupRedis(t), "test:rate:", nil)

	got, err := c.Get(ctx, "EUR")
	require.NoError(t, err)
	assert.Nil(t, got)

	set := &exchange.RateSet{
		Base:      "EUR",
		Rates:     map[string]decimal.Decimal{"USD": decimal.RequireFromString("1.0845")},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
		Source:    "test",
	}
	require.NoError(t, c.Set(ctx, set, time.Minute))

	got, err = c.Get(ctx, "EUR")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Rates["USD"].Equal(set.Rates["USD"]))
	assert.Equal(t, "test", got.Source)

	require.NoError(t, c.Delete(ctx, "EUR"))
	got, err = c.Get(ctx, "EUR")
	require.NoError(t, err)
	assert.Nil(t, got)
}
