package event

import (
	"context"

	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerLogHandler writes an audit line for every committed ledger change
type LedgerLogHandler struct {
	logger *zap.Logger
}

// NewLedgerLogHandler creates a LedgerLogHandler
func NewLedgerLogHandler(logger *zap.Logger) *LedgerLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerLogHandler{logger: logger.Named("audit")}
}

// EventTypes implements shared.EventHandler
func (h *LedgerLogHandler) EventTypes() []string {
	return []string{
		ledger.EventTypeClientCreated,
		ledger.EventTypeClientBalanceUpdated,
		ledger.EventTypeInvoiceRecorded,
	}
}

// Handle implements shared.EventHandler
func (h *LedgerLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *ledger.InvoiceRecordedEvent:
		fields = append(fields,
			zap.String("client_id", e.ClientID.String()),
			zap.Int64("invoice_no", e.No),
			zap.Int("items", e.Items),
			zap.String("subtotal", e.Subtotal.String()),
			zap.String("payment", e.Payment.String()),
			zap.String("balance", e.Balance.String()),
		)
	case *ledger.ClientBalanceUpdatedEvent:
		fields = append(fields,
			zap.String("old_balance", e.OldBalance.String()),
			zap.String("new_balance", e.NewBalance.String()),
		)
	}

	h.logger.Info(event.EventType(), fields...)
	return nil
}

var _ shared.EventHandler = (*LedgerLogHandler)(nil)
