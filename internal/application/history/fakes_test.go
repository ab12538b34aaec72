package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// fakeLister serves per-client rows; a gate holds the reply until closed
type fakeLister struct {
	mu    sync.Mutex
	rows  map[uuid.UUID][]appledger.InvoiceSummaryResponse
	errs  map[uuid.UUID]error
	gates map[uuid.UUID]chan struct{}
	calls int
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		rows:  map[uuid.UUID][]appledger.InvoiceSummaryResponse{},
		errs:  map[uuid.UUID]error{},
		gates: map[uuid.UUID]chan struct{}{},
	}
}

func (f *fakeLister) ListInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]appledger.InvoiceSummaryResponse, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[clientID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[clientID]; err != nil {
		return nil, err
	}
	return f.rows[clientID], nil
}

func (f *fakeLister) set(clientID uuid.UUID, rows []appledger.InvoiceSummaryResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[clientID] = rows
	f.errs[clientID] = err
}

func (f *fakeLister) gate(clientID uuid.UUID) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[clientID] = ch
	return ch
}

// fakeLoader serves invoice details; a gate holds the reply until closed
type fakeLoader struct {
	mu      sync.Mutex
	details map[uuid.UUID]*appledger.InvoiceDetailResponse
	gates   map[uuid.UUID]chan struct{}
	err     error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		details: map[uuid.UUID]*appledger.InvoiceDetailResponse{},
		gates:   map[uuid.UUID]chan struct{}{},
	}
}

func (f *fakeLoader) GetInvoiceDetail(ctx context.Context, invoiceID uuid.UUID) (*appledger.InvoiceDetailResponse, error) {
	f.mu.Lock()
	gate := f.gates[invoiceID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[invoiceID]
	if !ok {
		return nil, shared.NewNotFoundError("invoice")
	}
	return d, nil
}

func (f *fakeLoader) gate(invoiceID uuid.UUID) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[invoiceID] = ch
	return ch
}

func (f *fakeLoader) add(row appledger.InvoiceSummaryResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[row.ID] = &appledger.InvoiceDetailResponse{
		InvoiceSummaryResponse: row,
		Items: []appledger.InvoiceItemResponse{
			{ID: uuid.New(), Name: fmt.Sprintf("item-%d", row.No), Quantity: 1, Price: row.Total},
		},
	}
}

var baseTime = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// makeRows builds n invoices with No 1..n, one minute apart, returned oldest first
func makeRows(clientID uuid.UUID, n int) []appledger.InvoiceSummaryResponse {
	rows := make([]appledger.InvoiceSummaryResponse, n)
	for i := 0; i < n; i++ {
		rows[i] = appledger.InvoiceSummaryResponse{
			ID:        uuid.New(),
			No:        int64(i + 1),
			ClientID:  clientID,
			Total:     decimal.NewFromInt(int64((i + 1) * 1000)),
			Balance:   decimal.NewFromInt(int64((i + 1) * 100)),
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
	}
	return rows
}

type selectionRecorder struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *selectionRecorder) OnInvoiceSelected(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *selectionRecorder) got() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.ids...)
}

type exportRecorder struct {
	prints, images int
}

func (e *exportRecorder) OnPrintRequested()       { e.prints++ }
func (e *exportRecorder) OnImageExportRequested() { e.images++ }
