package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const resourceClient = "client"

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, resourceClient)
	}
	return model.ToDomain(), nil
}

// FindAll returns every client, favorites first
func (r *GormClientRepository) FindAll(ctx context.Context) ([]ledger.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Order("is_favorite DESC").
		Order("name ASC").
		Order("created_at ASC").
		Find(&clientModels).Error; err != nil {
		return nil, translateError(err, resourceClient)
	}

	clients := make([]ledger.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = *clientModels[i].ToDomain()
	}
	return clients, nil
}

// Save inserts a new client
func (r *GormClientRepository) Save(ctx context.Context, client *ledger.Client) error {
	model := models.ClientModelFromDomain(client)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, resourceClient)
	}
	return nil
}

// UpdateBalance overwrites the balance snapshot
func (r *GormClientRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"balance":    balance,
		"updated_at": at,
	})
}

// SetFavorite updates the favorite flag only. updated_at tracks balance writes.
func (r *GormClientRepository) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	return r.updateColumns(ctx, id, map[string]any{
		"is_favorite": favorite,
	})
}

func (r *GormClientRepository) updateColumns(ctx context.Context, id uuid.UUID, values map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", id).
		UpdateColumns(values)
	if result.Error != nil {
		return translateError(result.Error, resourceClient)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(resourceClient)
	}
	return nil
}

// Ensure GormClientRepository implements ClientRepository
var _ ledger.ClientRepository = (*GormClientRepository)(nil)
