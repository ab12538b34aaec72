package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	BaseModel
	Name       string          `gorm:"type:varchar(200);not null;index"`
	Phone      string          `gorm:"type:varchar(50)"`
	Note       string          `gorm:"type:text"`
	IsFavorite bool            `gorm:"not null;default:false"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *ledger.Client {
	return &ledger.Client{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
		},
		Name:       m.Name,
		Phone:      m.Phone,
		Note:       m.Note,
		IsFavorite: m.IsFavorite,
		Balance:    m.Balance,
	}
}

// FromDomain populates the persistence model from a domain Client
func (m *ClientModel) FromDomain(c *ledger.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Note = c.Note
	m.IsFavorite = c.IsFavorite
	m.Balance = c.Balance
}

// ClientModelFromDomain creates a new persistence model from a domain Client
func ClientModelFromDomain(c *ledger.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// InvoiceModel is the persistence model for an invoice header.
// Invoices are never updated, so there is no UpdatedAt column.
type InvoiceModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	No        int64                `gorm:"not null"`
	ClientID  uuid.UUID            `gorm:"type:uuid;not null;index:idx_invoice_client_created,priority:1"`
	Note      *string              `gorm:"type:text"`
	Balance   decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Payment   decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt time.Time            `gorm:"not null;index:idx_invoice_client_created,priority:2"`
	Client    *ClientModel         `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	Details   []InvoiceDetailModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model, including loaded details, to a domain Invoice
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	inv := &ledger.Invoice{
		ID:        m.ID,
		No:        m.No,
		ClientID:  m.ClientID,
		Note:      m.Note,
		Balance:   m.Balance,
		Payment:   m.Payment,
		CreatedAt: m.CreatedAt,
		Details:   make([]ledger.InvoiceDetail, len(m.Details)),
	}
	for i := range m.Details {
		inv.Details[i] = m.Details[i].ToDomain()
	}
	return inv
}

// InvoiceModelFromDomain creates the header model. Details are persisted separately.
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:        inv.ID,
		No:        inv.No,
		ClientID:  inv.ClientID,
		Note:      inv.Note,
		Balance:   inv.Balance,
		Payment:   inv.Payment,
		CreatedAt: inv.CreatedAt,
	}
}

// InvoiceDetailModel is the persistence model for an invoice line item
type InvoiceDetailModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_detail_position,priority:1"`
	Position  int             `gorm:"not null;index:idx_invoice_detail_position,priority:2"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Spec      *string         `gorm:"type:varchar(200)"`
	Quantity  int             `gorm:"not null;default:1"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceDetailModel) TableName() string {
	return "invoice_details"
}

// ToDomain converts the persistence model to a domain InvoiceDetail
func (m *InvoiceDetailModel) ToDomain() ledger.InvoiceDetail {
	return ledger.InvoiceDetail{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		Position:  m.Position,
		Name:      m.Name,
		Spec:      m.Spec,
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// InvoiceDetailModelFromDomain creates a persistence model from a domain InvoiceDetail
func InvoiceDetailModelFromDomain(d ledger.InvoiceDetail) InvoiceDetailModel {
	return InvoiceDetailModel{
		ID:        d.ID,
		InvoiceID: d.InvoiceID,
		Position:  d.Position,
		Name:      d.Name,
		Spec:      d.Spec,
		Quantity:  d.Quantity,
		Price:     d.Price,
	}
}

// LedgerModels lists the models for AutoMigrate in dependency order
func LedgerModels() []any {
	return []any{
		&ClientModel{},
		&InvoiceModel{},
		&InvoiceDetailModel{},
	}
}
