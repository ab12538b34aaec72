package ledger

import (
	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeClient  = "Client"
	AggregateTypeInvoice = "Invoice"
)

// Event type constants
const (
	EventTypeClientCreated        = "ClientCreated"
	EventTypeClientBalanceUpdated = "ClientBalanceUpdated"
	EventTypeInvoiceRecorded      = "InvoiceRecorded"
)

// ClientCreatedEvent is published when a client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, client.CreatedAt),
		ClientID:        client.ID,
		Name:            client.Name,
	}
}

// ClientBalanceUpdatedEvent is published when a paid invoice pushes a new balance snapshot
type ClientBalanceUpdatedEvent struct {
	shared.BaseDomainEvent
	ClientID   uuid.UUID       `json:"client_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// NewClientBalanceUpdatedEvent creates a new ClientBalanceUpdatedEvent
func NewClientBalanceUpdatedEvent(client *Client, oldBalance decimal.Decimal) *ClientBalanceUpdatedEvent {
	return &ClientBalanceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientBalanceUpdated, AggregateTypeClient, client.ID, client.UpdatedAt),
		ClientID:        client.ID,
		OldBalance:      oldBalance,
		NewBalance:      client.Balance,
	}
}

// InvoiceRecordedEvent is published after an invoice and its line items are committed
type InvoiceRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	No        int64           `json:"no"`
	Items     int             `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Payment   decimal.Decimal `json:"payment"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewInvoiceRecordedEvent creates a new InvoiceRecordedEvent
func NewInvoiceRecordedEvent(inv *Invoice) *InvoiceRecordedEvent {
	return &InvoiceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRecorded, AggregateTypeInvoice, inv.ID, inv.CreatedAt),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		No:              inv.No,
		Items:           len(inv.Details),
		Subtotal:        inv.Subtotal(),
		Payment:         inv.Payment,
		Balance:         inv.Balance,
	}
}
