package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientService_CreateClient(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	t.Run("creates client with defaults", func(t *testing.T) {
		repo := new(MockClientRepository)
		publisher := new(MockEventPublisher)
		svc := NewClientService(repo, zap.NewNop(), WithClientClock(fixedClock(now)), WithClientEventPublisher(publisher))

		repo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Client")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateClient(context.Background(), CreateClientRequest{Name: "Acme"})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "Acme", resp.Name)
		assert.Equal(t, "", resp.Phone)
		assert.Equal(t, "", resp.Note)
		assert.False(t, resp.IsFavorite)
		assert.True(t, resp.Balance.IsZero())
		assert.Equal(t, now, resp.CreatedAt)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("keeps optional fields", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo, zap.NewNop())
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateClient(context.Background(), CreateClientRequest{
			Name: "Acme", Phone: "02-555-0100", Note: "monthly", IsFavorite: ptr(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "02-555-0100", resp.Phone)
		assert.Equal(t, "monthly", resp.Note)
		assert.True(t, resp.IsFavorite)
	})

	for _, name := range []string{"", "   "} {
		t.Run("rejects name "+`"`+name+`"`, func(t *testing.T) {
			repo := new(MockClientRepository)
			svc := NewClientService(repo, zap.NewNop())

			resp, err := svc.CreateClient(context.Background(), CreateClientRequest{Name: name})

			assert.Nil(t, resp)
			assert.True(t, shared.IsValidation(err))
			de, _ := shared.AsDomainError(err)
			assert.Equal(t, "name", de.Field)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestClientService_Reads(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, zap.NewNop())
	a := newTestClient("A")
	b := newTestClient("B")

	repo.On("FindAll", mock.Anything).Return([]ledger.Client{*a, *b}, nil)
	repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.NewNotFoundError("client"))

	list, err := svc.ListClients(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)

	got, err := svc.GetClient(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.GetClient(context.Background(), missing)
	assert.True(t, shared.IsNotFound(err))
}

func TestClientService_SetFavorite(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, zap.NewNop())
	client := newTestClient("Acme")

	repo.On("SetFavorite", mock.Anything, client.ID, true).Run(func(mock.Arguments) {
		client.SetFavorite(true)
	}).Return(nil)
	repo.On("FindByID", mock.Anything, client.ID).Return(client, nil)

	resp, err := svc.SetFavorite(context.Background(), client.ID, SetFavoriteRequest{IsFavorite: ptr(true)})
	require.NoError(t, err)
	assert.True(t, resp.IsFavorite)

	_, err = svc.SetFavorite(context.Background(), client.ID, SetFavoriteRequest{})
	assert.True(t, shared.IsValidation(err))
}
