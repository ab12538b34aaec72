package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
)

// QueryService reads invoices back for history and detail views
type QueryService struct {
	clientRepo  ledger.ClientRepository
	invoiceRepo ledger.InvoiceRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(clientRepo ledger.ClientRepository, invoiceRepo ledger.InvoiceRepository) *QueryService {
	return &QueryService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// ListInvoicesForClient returns a client's invoices newest first.
// An unknown client yields a NotFound error rather than an empty list.
func (s *QueryService) ListInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]InvoiceSummaryResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ledger.SortNewestFirst(invoices)

	responses := make([]InvoiceSummaryResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceSummaryResponse(&invoices[i])
	}
	return responses, nil
}

// GetInvoiceDetail returns an invoice with its line items and summary block
func (s *QueryService) GetInvoiceDetail(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetailResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceDetailResponse(invoice)
	return &response, nil
}
