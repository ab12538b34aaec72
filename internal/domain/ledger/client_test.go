package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("creates client with defaults", func(t *testing.T) {
		client, err := NewClient("Acme", ClientOptions{}, now)

		require.NoError(t, err)
		assert.Equal(t, "Acme", client.Name)
		assert.Equal(t, "", client.Phone)
		assert.Equal(t, "", client.Note)
		assert.False(t, client.IsFavorite)
		assert.True(t, client.Balance.IsZero())
		assert.Equal(t, now, client.CreatedAt)
		assert.Equal(t, now, client.UpdatedAt)
		require.Len(t, client.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClientCreated, client.GetDomainEvents()[0].EventType())
	})

	t.Run("keeps optional fields", func(t *testing.T) {
		client, err := NewClient("  Acme  ", ClientOptions{Phone: "010-1234", Note: "vip", IsFavorite: true}, now)

		require.NoError(t, err)
		assert.Equal(t, "Acme", client.Name)
		assert.Equal(t, "010-1234", client.Phone)
		assert.Equal(t, "vip", client.Note)
		assert.True(t, client.IsFavorite)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		client, err := NewClient("", ClientOptions{}, now)

		assert.Nil(t, client)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "name", de.Field)
	})

	t.Run("fails with blank name", func(t *testing.T) {
		_, err := NewClient("   ", ClientOptions{}, now)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails with overlong name", func(t *testing.T) {
		_, err := NewClient(strings.Repeat("가", 201), ClientOptions{}, now)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestClient_ApplyBalanceSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	client, err := NewClient("Acme", ClientOptions{}, now)
	require.NoError(t, err)
	client.ClearDomainEvents()

	later := now.Add(time.Hour)
	client.ApplyBalanceSnapshot(decimal.NewFromInt(500), later)
	client.ApplyBalanceSnapshot(decimal.NewFromInt(120), later)

	assert.True(t, client.Balance.Equal(decimal.NewFromInt(120)), "snapshot replaces, never accumulates")
	assert.Equal(t, later, client.UpdatedAt)
	events := client.GetDomainEvents()
	require.Len(t, events, 2)
	last := events[1].(*ClientBalanceUpdatedEvent)
	assert.True(t, last.OldBalance.Equal(decimal.NewFromInt(500)))
	assert.True(t, last.NewBalance.Equal(decimal.NewFromInt(120)))
}
