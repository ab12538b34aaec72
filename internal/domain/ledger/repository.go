package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindAll returns every client, favorites first, then by name, then by creation time
	FindAll(ctx context.Context) ([]Client, error)

	// Save inserts a new client
	Save(ctx context.Context, client *Client) error

	// UpdateBalance overwrites the balance snapshot and its timestamp.
	// Only LedgerService calls it, through a TransactionScope.
	// Returns shared.ErrNotFound if the client does not exist.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, at time.Time) error

	// SetFavorite updates the favorite flag.
	// Returns shared.ErrNotFound if the client does not exist.
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Save inserts the invoice row without its line items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveDetails inserts line items in position order. An empty slice is a no-op.
	SaveDetails(ctx context.Context, details []InvoiceDetail) error

	// FindByID loads an invoice with its line items in position order
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByClient lists a client's invoices with their line items, newest first
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Invoice, error)
}
