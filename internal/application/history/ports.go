// Package history holds the client-side view models for a client's invoice history
// and the breakdown of the selected invoice.
package history

import (
	"context"

	"github.com/google/uuid"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
)

// InvoiceLister reads a client's invoices. Implemented by the query service and the HTTP api client.
type InvoiceLister interface {
	ListInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]appledger.InvoiceSummaryResponse, error)
}

// InvoiceDetailLoader reads one invoice with its line items
type InvoiceDetailLoader interface {
	GetInvoiceDetail(ctx context.Context, invoiceID uuid.UUID) (*appledger.InvoiceDetailResponse, error)
}

// SelectionListener is told when the selected invoice changes
type SelectionListener interface {
	OnInvoiceSelected(invoiceID uuid.UUID)
}

// SelectionListenerFunc adapts a function to SelectionListener
type SelectionListenerFunc func(invoiceID uuid.UUID)

// OnInvoiceSelected calls f(invoiceID)
func (f SelectionListenerFunc) OnInvoiceSelected(invoiceID uuid.UUID) { f(invoiceID) }

// ExportListener receives print and image export requests. The ledger takes no part in exporting.
type ExportListener interface {
	OnPrintRequested()
	OnImageExportRequested()
}

var (
	_ InvoiceLister       = (*appledger.QueryService)(nil)
	_ InvoiceDetailLoader = (*appledger.QueryService)(nil)
)
