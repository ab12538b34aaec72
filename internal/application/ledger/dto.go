package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	Name       string `json:"name" binding:"required,max=200" validate:"required,max=200"`
	Phone      string `json:"phone" binding:"max=50" validate:"max=50"`
	Note       string `json:"note"`
	IsFavorite *bool  `json:"is_favorite"`
}

// SetFavoriteRequest represents a request to toggle a client's favorite flag
type SetFavoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required" validate:"required"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Note       string          `json:"note"`
	IsFavorite bool            `json:"is_favorite"`
	Balance    decimal.Decimal `json:"balance"`
	UpdatedAt  time.Time       `json:"updated_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *ledger.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Note:       c.Note,
		IsFavorite: c.IsFavorite,
		Balance:    c.Balance,
		UpdatedAt:  c.UpdatedAt,
		CreatedAt:  c.CreatedAt,
	}
}

// ToClientResponses converts a slice of domain Clients to ClientResponses
func ToClientResponses(clients []ledger.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// RecordInvoiceRequest represents a request to record an invoice with its line items.
// A nil Details slice means the field was absent; an empty slice records a zero-item invoice.
type RecordInvoiceRequest struct {
	No       int64                  `json:"no" validate:"required,gt=0"`
	ClientID uuid.UUID              `json:"client_id" validate:"required"`
	Note     *string                `json:"note"`
	Balance  *decimal.Decimal       `json:"balance"`
	Payment  *decimal.Decimal       `json:"payment"`
	Details  []InvoiceDetailRequest `json:"details" validate:"required,dive"`

	// IdempotencyKey is taken from the Idempotency-Key header, not from the body
	IdempotencyKey string `json:"-"`
}

// InvoiceDetailRequest represents one line item of a RecordInvoiceRequest
type InvoiceDetailRequest struct {
	Name     string           `json:"name" validate:"required,max=200"`
	Spec     *string          `json:"spec" validate:"omitempty,max=200"`
	Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
	Price    *decimal.Decimal `json:"price"`
}

// toInput maps the request onto the domain constructor input
func (r RecordInvoiceRequest) toInput() ledger.InvoiceInput {
	details := make([]ledger.DetailInput, len(r.Details))
	for i, d := range r.Details {
		details[i] = ledger.DetailInput{
			Name:     d.Name,
			Spec:     d.Spec,
			Quantity: d.Quantity,
			Price:    d.Price,
		}
	}
	return ledger.InvoiceInput{
		No:       r.No,
		ClientID: r.ClientID,
		Note:     r.Note,
		Balance:  r.Balance,
		Payment:  r.Payment,
		Details:  details,
	}
}

// RecordInvoiceResponse carries the identity of a recorded invoice
type RecordInvoiceResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
}

// InvoiceSummaryResponse is one row of a client's invoice history
type InvoiceSummaryResponse struct {
	ID        uuid.UUID       `json:"id"`
	No        int64           `json:"no"`
	ClientID  uuid.UUID       `json:"client_id"`
	Note      *string         `json:"note"`
	Total     decimal.Decimal `json:"total"`
	Payment   decimal.Decimal `json:"payment"`
	Balance   decimal.Decimal `json:"balance"`
	ItemCount int             `json:"item_count"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderKey returns the row's history ordering key
func (r InvoiceSummaryResponse) OrderKey() ledger.OrderKey {
	return ledger.OrderKey{CreatedAt: r.CreatedAt, No: r.No, ID: r.ID}
}

// ToInvoiceSummaryResponse converts a domain Invoice to an InvoiceSummaryResponse
func ToInvoiceSummaryResponse(inv *ledger.Invoice) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		ID:        inv.ID,
		No:        inv.No,
		ClientID:  inv.ClientID,
		Note:      inv.Note,
		Total:     inv.Subtotal(),
		Payment:   inv.Payment,
		Balance:   inv.Balance,
		ItemCount: len(inv.Details),
		CreatedAt: inv.CreatedAt,
	}
}

// InvoiceItemResponse is one line item of an invoice
type InvoiceItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Position  int             `json:"position"`
	Name      string          `json:"name"`
	Spec      *string         `json:"spec"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SummaryResponse is the block printed under an invoice's line items
type SummaryResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	PrevBalance decimal.Decimal `json:"prev_balance"`
	Total       decimal.Decimal `json:"total"`
	Payment     decimal.Decimal `json:"payment"`
	Balance     decimal.Decimal `json:"balance"`
	Note        *string         `json:"note"`
}

// InvoiceDetailResponse is a full invoice with its line items and summary
type InvoiceDetailResponse struct {
	InvoiceSummaryResponse
	Items   []InvoiceItemResponse `json:"items"`
	Summary SummaryResponse       `json:"summary"`
}

// ToInvoiceDetailResponse converts a domain Invoice to an InvoiceDetailResponse
func ToInvoiceDetailResponse(inv *ledger.Invoice) InvoiceDetailResponse {
	items := make([]InvoiceItemResponse, len(inv.Details))
	for i, d := range inv.Details {
		items[i] = InvoiceItemResponse{
			ID:        d.ID,
			Position:  d.Position,
			Name:      d.Name,
			Spec:      d.Spec,
			Quantity:  d.Quantity,
			Price:     d.Price,
			LineTotal: d.LineTotal(),
		}
	}
	s := ledger.Summarize(inv)
	return InvoiceDetailResponse{
		InvoiceSummaryResponse: ToInvoiceSummaryResponse(inv),
		Items:                  items,
		Summary: SummaryResponse{
			Subtotal:    s.Subtotal,
			PrevBalance: s.PrevBalance,
			Total:       s.Total,
			Payment:     s.Payment,
			Balance:     s.Balance,
			Note:        s.Note,
		},
	}
}

// ToDomainInvoice rebuilds a domain Invoice from a detail response
func (r *InvoiceDetailResponse) ToDomainInvoice() *ledger.Invoice {
	details := make([]ledger.InvoiceDetail, len(r.Items))
	for i, item := range r.Items {
		details[i] = ledger.InvoiceDetail{
			ID:        item.ID,
			InvoiceID: r.ID,
			Position:  item.Position,
			Name:      item.Name,
			Spec:      item.Spec,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return &ledger.Invoice{
		ID:        r.ID,
		No:        r.No,
		ClientID:  r.ClientID,
		Note:      r.Note,
		Balance:   r.Balance,
		Payment:   r.Payment,
		CreatedAt: r.CreatedAt,
		Details:   details,
	}
}
