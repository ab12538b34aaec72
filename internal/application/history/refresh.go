package history

import (
	"context"
	"errors"

	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
)

// RefreshHandler reloads a history view when an invoice is recorded for its bound client.
// Subscribe it to an event bus to keep an open view current.
type RefreshHandler struct {
	view *HistoryViewModel
}

// NewRefreshHandler creates a RefreshHandler for view
func NewRefreshHandler(view *HistoryViewModel) *RefreshHandler {
	return &RefreshHandler{view: view}
}

// EventTypes implements shared.EventHandler
func (r *RefreshHandler) EventTypes() []string {
	return []string{ledger.EventTypeInvoiceRecorded}
}

// Handle implements shared.EventHandler
func (r *RefreshHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*ledger.InvoiceRecordedEvent)
	if !ok || recorded.ClientID != r.view.ClientID() {
		return nil
	}
	err := r.view.Reload(ctx)
	if errors.Is(err, ErrStaleResponse) {
		// a newer load superseded this one
		return nil
	}
	return err
}

var _ shared.EventHandler = (*RefreshHandler)(nil)
