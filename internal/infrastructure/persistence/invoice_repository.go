package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceInvoice = "invoice"

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save inserts the invoice header. Line items go through SaveDetails.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err, resourceInvoice)
	}
	return nil
}

// SaveDetails inserts line items in one statement
func (r *GormInvoiceRepository) SaveDetails(ctx context.Context, details []ledger.InvoiceDetail) error {
	if len(details) == 0 {
		return nil
	}
	detailModels := make([]models.InvoiceDetailModel, len(details))
	for i, d := range details {
		detailModels[i] = models.InvoiceDetailModelFromDomain(d)
	}
	if err := r.db.WithContext(ctx).Create(&detailModels).Error; err != nil {
		return translateError(err, resourceInvoice)
	}
	return nil
}

// FindByID loads an invoice with its line items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Details", orderByPosition).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, resourceInvoice)
	}
	return model.ToDomain(), nil
}

// FindByClient lists a client's invoices newest first
func (r *GormInvoiceRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Details", orderByPosition).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Order("no DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, translateError(err, resourceInvoice)
	}

	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	// the id tie-break is applied in Go since uuid ordering differs between drivers
	ledger.SortNewestFirst(invoices)
	return invoices, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ ledger.InvoiceRepository = (*GormInvoiceRepository)(nil)
