package fixtures

import (
	"context"
	"io"

	"github.com/amirasaad/backoffice/pkg/domain/notification"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
	"github.com/stretchr/testify/mock"
)

// MockSender is a testify mock of notifier.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockSender) Name() string { return "mock" }

// MockProvider is a testify mock of exchange.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Latest(ctx context.Context, base string) (*exchange.RateSet, error) {
	args := m.Called(ctx, base)
	set, _ := args.Get(0).(*exchange.RateSet)
	return set, args.Error(1)
}

func (m *MockProvider) Name() string { return "mock" }

// MockStore is a testify mock of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
