package history

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Defaults for Config
const (
	DefaultPageSize    = 10
	DefaultRevealDelay = 500 * time.Millisecond
)

// ErrStaleResponse is returned when a fetch finished after a newer one was started.
// Its result was dropped.
var ErrStaleResponse = errors.New("history: response superseded by a newer request")

// Status is the load state of a view model
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds the history view settings.
// A zero RevealDelay means DefaultRevealDelay; a negative one reveals without delay.
type Config struct {
	PageSize    int
	RevealDelay time.Duration
	Formatter   *Formatter
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.RevealDelay < 0 {
		c.RevealDelay = 0
	} else if c.RevealDelay == 0 {
		c.RevealDelay = DefaultRevealDelay
	}
	if c.Formatter == nil {
		c.Formatter = NewFormatter(nil)
	}
	return c
}

// ConfigFrom builds a Config from the history section of the application config
func ConfigFrom(cfg config.HistoryConfig) (Config, error) {
	formatter, err := LoadFormatter(cfg.TimeZone)
	if err != nil {
		return Config{}, err
	}
	return Config{
		PageSize:    cfg.PageSize,
		RevealDelay: cfg.RevealDelay,
		Formatter:   formatter,
	}, nil
}

// HistoryRow is one revealed row of the history table
type HistoryRow struct {
	ID          uuid.UUID
	No          int64
	CreatedAt   time.Time
	Date        string
	Total       decimal.Decimal
	Payment     decimal.Decimal
	Balance     decimal.Decimal
	TotalText   string
	PaymentText string
	BalanceText string
	Note        *string
	Selected    bool
	// Editable is set only on the latest invoice of the whole history
	Editable bool
}

// HistoryViewModel presents one client's invoices newest first, revealed page by page,
// with the latest invoice selected on load and flagged as the only editable row.
// It is safe for concurrent use.
type HistoryViewModel struct {
	lister InvoiceLister
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	clientID   uuid.UUID
	generation uint64
	all        []appledger.InvoiceSummaryResponse
	revealed   int
	selected   uuid.UUID
	latest     uuid.UUID
	notified   uuid.UUID
	status     Status
	err        error

	revealTimer *time.Timer
	revealSeq   uint64

	selectionListeners []SelectionListener
	changeListeners    []func()
	exportListener     ExportListener
}

// NewHistoryViewModel creates a view model reading through lister
func NewHistoryViewModel(lister InvoiceLister, cfg Config, logger *zap.Logger) *HistoryViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryViewModel{
		lister: lister,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// AddSelectionListener registers l for selection changes
func (h *HistoryViewModel) AddSelectionListener(l SelectionListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selectionListeners = append(h.selectionListeners, l)
}

// OnChange registers fn to run after any state change that alters Rows
func (h *HistoryViewModel) OnChange(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changeListeners = append(h.changeListeners, fn)
}

// SetExportListener sets the receiver of print and image export requests
func (h *HistoryViewModel) SetExportListener(l ExportListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exportListener = l
}

// Bind switches the view to clientID and fetches its history.
// Any fetch still in flight for a previous Bind is discarded.
// On failure the view stays empty and the error is kept for Err.
func (h *HistoryViewModel) Bind(ctx context.Context, clientID uuid.UUID) error {
	h.mu.Lock()
	h.clientID = clientID
	h.all = nil
	h.revealed = 0
	h.selected = uuid.Nil
	h.latest = uuid.Nil
	h.notified = uuid.Nil
	h.err = nil
	h.mu.Unlock()

	return h.load(ctx, clientID)
}

// Reload fetches the bound client's history again.
// A failed reload keeps the rows already shown and reports the error.
func (h *HistoryViewModel) Reload(ctx context.Context) error {
	h.mu.Lock()
	clientID := h.clientID
	h.mu.Unlock()

	if clientID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidState, "history is not bound to a client")
	}
	return h.load(ctx, clientID)
}

func (h *HistoryViewModel) load(ctx context.Context, clientID uuid.UUID) error {
	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.status = StatusLoading
	h.stopRevealTimerLocked()
	h.mu.Unlock()

	rows, err := h.lister.ListInvoicesForClient(ctx, clientID)

	h.mu.Lock()
	if gen != h.generation {
		h.mu.Unlock()
		h.logger.Debug("discarding stale history response", zap.String("client_id", clientID.String()))
		return ErrStaleResponse
	}

	if err != nil {
		h.status = StatusFailed
		h.err = err
		h.mu.Unlock()
		h.logger.Warn("failed to load invoice history",
			zap.String("client_id", clientID.String()),
			zap.Error(err),
		)
		h.fireChange()
		return err
	}

	sorted := make([]appledger.InvoiceSummaryResponse, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderKey().NewerThan(sorted[j].OrderKey())
	})

	h.all = sorted
	// Bind zeroes revealed, so only a Reload keeps the rows already paged in
	h.revealed = min(max(h.revealed, h.cfg.PageSize), len(sorted))
	h.status = StatusReady
	h.err = nil
	h.latest = uuid.Nil
	if len(sorted) > 0 {
		h.latest = sorted[0].ID
	}
	if h.indexOfLocked(h.selected) < 0 {
		h.selected = h.latest
	}
	notify := h.takeNotificationLocked()
	h.mu.Unlock()

	h.fireSelection(notify)
	h.fireChange()
	return nil
}

// RevealMore exposes the next page, clamped to the list length, and returns the revealed count.
// It is a no-op once every row is revealed.
func (h *HistoryViewModel) RevealMore() int {
	h.mu.Lock()
	n, changed := h.revealMoreLocked()
	h.mu.Unlock()

	if changed {
		h.fireChange()
	}
	return n
}

func (h *HistoryViewModel) revealMoreLocked() (int, bool) {
	if h.revealed >= len(h.all) {
		return h.revealed, false
	}
	h.revealed = min(h.revealed+h.cfg.PageSize, len(h.all))
	return h.revealed, true
}

// Select makes invoiceID the selected row. Any invoice in the history may be selected.
func (h *HistoryViewModel) Select(invoiceID uuid.UUID) error {
	h.mu.Lock()
	if h.indexOfLocked(invoiceID) < 0 {
		h.mu.Unlock()
		return shared.NewNotFoundError("invoice")
	}
	h.selected = invoiceID
	notify := h.takeNotificationLocked()
	h.mu.Unlock()

	if notify != uuid.Nil {
		h.fireSelection(notify)
		h.fireChange()
	}
	return nil
}

// Rows returns the revealed rows with selection and editable flags
func (h *HistoryViewModel) Rows() []HistoryRow {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.cfg.Formatter
	rows := make([]HistoryRow, h.revealed)
	for i := 0; i < h.revealed; i++ {
		inv := h.all[i]
		rows[i] = HistoryRow{
			ID:          inv.ID,
			No:          inv.No,
			CreatedAt:   inv.CreatedAt,
			Date:        f.Date(inv.CreatedAt),
			Total:       inv.Total,
			Payment:     inv.Payment,
			Balance:     inv.Balance,
			TotalText:   f.Amount(inv.Total),
			PaymentText: f.Amount(inv.Payment),
			BalanceText: f.Amount(inv.Balance),
			Note:        inv.Note,
			Selected:    inv.ID == h.selected,
			Editable:    inv.ID == h.latest,
		}
	}
	return rows
}

// ClientID returns the bound client, or uuid.Nil
func (h *HistoryViewModel) ClientID() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clientID
}

// LatestID returns the editable invoice, or uuid.Nil for an empty history
func (h *HistoryViewModel) LatestID() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// SelectedID returns the selected invoice, or uuid.Nil when nothing is selected
func (h *HistoryViewModel) SelectedID() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected
}

// RevealedCount returns how many rows are revealed
func (h *HistoryViewModel) RevealedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revealed
}

// Total returns the number of invoices in the history
func (h *HistoryViewModel) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.all)
}

// Status returns the load state
func (h *HistoryViewModel) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Err returns the error of the last failed fetch, or nil
func (h *HistoryViewModel) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// RequestPrint forwards a print request to the export listener
func (h *HistoryViewModel) RequestPrint() {
	if l := h.currentExportListener(); l != nil {
		l.OnPrintRequested()
	}
}

// RequestImageExport forwards an image export request to the export listener
func (h *HistoryViewModel) RequestImageExport() {
	if l := h.currentExportListener(); l != nil {
		l.OnImageExportRequested()
	}
}

// Close stops any pending reveal
func (h *HistoryViewModel) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopRevealTimerLocked()
}

func (h *HistoryViewModel) currentExportListener() ExportListener {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exportListener
}

func (h *HistoryViewModel) indexOfLocked(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range h.all {
		if h.all[i].ID == id {
			return i
		}
	}
	return -1
}

// takeNotificationLocked returns the selection to announce, or uuid.Nil if it was already announced
func (h *HistoryViewModel) takeNotificationLocked() uuid.UUID {
	if h.selected == uuid.Nil || h.selected == h.notified {
		return uuid.Nil
	}
	h.notified = h.selected
	return h.selected
}

func (h *HistoryViewModel) fireSelection(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	h.mu.Lock()
	listeners := append([]SelectionListener(nil), h.selectionListeners...)
	h.mu.Unlock()

	for _, l := range listeners {
		l.OnInvoiceSelected(id)
	}
}

func (h *HistoryViewModel) fireChange() {
	h.mu.Lock()
	listeners := append([]func(){}, h.changeListeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
