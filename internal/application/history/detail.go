package history

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemView is one line item of the displayed invoice
type ItemView struct {
	Name          string
	Spec          *string
	Quantity      int
	Price         decimal.Decimal
	LineTotal     decimal.Decimal
	PriceText     string
	LineTotalText string
}

// InvoiceView is the displayed invoice with its summary block
type InvoiceView struct {
	InvoiceID   uuid.UUID
	No          int64
	Date        string
	Items       []ItemView
	Subtotal    decimal.Decimal
	PrevBalance decimal.Decimal
	Total       decimal.Decimal
	Payment     decimal.Decimal
	Balance     decimal.Decimal
	Note        *string
}

// InvoiceDetailViewModel loads the selected invoice and computes its summary.
// Only the most recent Load may update Current; older results are dropped.
type InvoiceDetailViewModel struct {
	loader    InvoiceDetailLoader
	formatter *Formatter
	logger    *zap.Logger

	mu         sync.Mutex
	generation uint64
	current    *InvoiceView
	status     Status
	err        error

	inflight sync.WaitGroup
}

// NewInvoiceDetailViewModel creates a detail view model reading through loader
func NewInvoiceDetailViewModel(loader InvoiceDetailLoader, formatter *Formatter, logger *zap.Logger) *InvoiceDetailViewModel {
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceDetailViewModel{
		loader:    loader,
		formatter: formatter,
		logger:    logger,
	}
}

// Load fetches invoiceID and makes it the current view.
// It returns ErrStaleResponse if another Load started before this one finished.
// A failed load leaves the previous view in place.
func (d *InvoiceDetailViewModel) Load(ctx context.Context, invoiceID uuid.UUID) (*InvoiceView, error) {
	return d.fetch(ctx, invoiceID, d.begin())
}

// Follow loads the detail of every invoice h selects, using ctx for the fetches.
// Loads run in the background; Wait blocks until they finish.
func (d *InvoiceDetailViewModel) Follow(ctx context.Context, h *HistoryViewModel) {
	h.AddSelectionListener(SelectionListenerFunc(func(invoiceID uuid.UUID) {
		gen := d.begin()
		d.inflight.Add(1)
		go func() {
			defer d.inflight.Done()
			_, _ = d.fetch(ctx, invoiceID, gen)
		}()
	}))
}

// Wait blocks until background loads started by Follow have finished
func (d *InvoiceDetailViewModel) Wait() {
	d.inflight.Wait()
}

// begin takes a new generation so that any earlier fetch becomes stale
func (d *InvoiceDetailViewModel) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.status = StatusLoading
	return d.generation
}

func (d *InvoiceDetailViewModel) fetch(ctx context.Context, invoiceID uuid.UUID, gen uint64) (*InvoiceView, error) {
	resp, err := d.loader.GetInvoiceDetail(ctx, invoiceID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		d.logger.Debug("discarding stale invoice detail", zap.String("invoice_id", invoiceID.String()))
		return nil, ErrStaleResponse
	}
	if err != nil {
		d.status = StatusFailed
		d.err = err
		d.logger.Warn("failed to load invoice detail",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	view := d.buildView(resp.ToDomainInvoice())
	d.current = view
	d.status = StatusReady
	d.err = nil
	return view, nil
}

func (d *InvoiceDetailViewModel) buildView(inv *ledger.Invoice) *InvoiceView {
	items := make([]ItemView, len(inv.Details))
	for i, detail := range inv.Details {
		lineTotal := detail.LineTotal()
		items[i] = ItemView{
			Name:          detail.Name,
			Spec:          detail.Spec,
			Quantity:      detail.Quantity,
			Price:         detail.Price,
			LineTotal:     lineTotal,
			PriceText:     d.formatter.Amount(detail.Price),
			LineTotalText: d.formatter.Amount(lineTotal),
		}
	}

	s := ledger.Summarize(inv)
	return &InvoiceView{
		InvoiceID:   inv.ID,
		No:          inv.No,
		Date:        d.formatter.Date(inv.CreatedAt),
		Items:       items,
		Subtotal:    s.Subtotal,
		PrevBalance: s.PrevBalance,
		Total:       s.Total,
		Payment:     s.Payment,
		Balance:     s.Balance,
		Note:        s.Note,
	}
}

// Current returns the displayed invoice, or nil before the first successful load
func (d *InvoiceDetailViewModel) Current() *InvoiceView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Status returns the load state
func (d *InvoiceDetailViewModel) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Err returns the error of the last failed load, or nil
func (d *InvoiceDetailViewModel) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
