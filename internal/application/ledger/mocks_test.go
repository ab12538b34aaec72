package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository is a mock implementation of ledger.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context) ([]ledger.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *ledger.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, at time.Time) error {
	args := m.Called(ctx, id, balance, at)
	return args.Error(0)
}

func (m *MockClientRepository) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	args := m.Called(ctx, id, favorite)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of ledger.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveDetails(ctx context.Context, details []ledger.InvoiceDetail) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]ledger.Invoice, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Invoice), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// decimalEq matches a decimal argument by value
func decimalEq(want decimal.Decimal) any {
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(want) })
}

func fixedClock(t time.Time) shared.Clock {
	return shared.ClockFunc(func() time.Time { return t })
}

func newTestClient(name string) *ledger.Client {
	c, err := ledger.NewClient(name, ledger.ClientOptions{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	c.ClearDomainEvents()
	return c
}

func ptr[T any](v T) *T { return &v }
