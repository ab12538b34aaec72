package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledgerServer struct {
	clientID uuid.UUID
	invoices []appledger.InvoiceDetailResponse
	failList bool

	mu        sync.Mutex
	requested []uuid.UUID
}

func (s *ledgerServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	write := func(status int, resp dto.Response) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}

	if r.URL.Path == "/api/v1/clients/"+s.clientID.String()+"/invoices" {
		if s.failList {
			write(http.StatusServiceUnavailable, dto.NewErrorResponse("ERR_STORE_UNAVAILABLE", "database is down"))
			return
		}
		rows := make([]appledger.InvoiceSummaryResponse, len(s.invoices))
		for i, inv := range s.invoices {
			rows[i] = inv.InvoiceSummaryResponse
		}
		write(http.StatusOK, dto.NewListResponse(rows, len(rows)))
		return
	}

	for _, inv := range s.invoices {
		if r.URL.Path == "/api/v1/invoices/"+inv.ID.String()+"/detail" {
			s.mu.Lock()
			s.requested = append(s.requested, inv.ID)
			s.mu.Unlock()
			write(http.StatusOK, dto.NewSuccessResponse(inv))
			return
		}
	}
	write(http.StatusNotFound, dto.NewErrorResponse("ERR_NOT_FOUND", "not found"))
}

func newLedgerServer(t *testing.T) *ledgerServer {
	t.Helper()
	clientID := uuid.New()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	note := "paid in cash"

	first := appledger.InvoiceDetailResponse{
		InvoiceSummaryResponse: appledger.InvoiceSummaryResponse{
			ID: uuid.New(), No: 1, ClientID: clientID,
			Total: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000),
			ItemCount: 1, CreatedAt: created,
		},
		Items: []appledger.InvoiceItemResponse{
			{ID: uuid.New(), Position: 0, Name: "bolt", Quantity: 10, Price: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(1000)},
		},
	}
	second := appledger.InvoiceDetailResponse{
		InvoiceSummaryResponse: appledger.InvoiceSummaryResponse{
			ID: uuid.New(), No: 2, ClientID: clientID, Note: &note,
			Total: decimal.NewFromInt(1500), Payment: decimal.NewFromInt(200), Balance: decimal.NewFromInt(1300),
			ItemCount: 1, CreatedAt: created.Add(time.Hour),
		},
		Items: []appledger.InvoiceItemResponse{
			{ID: uuid.New(), Position: 0, Name: "nut", Quantity: 5, Price: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(500)},
		},
	}

	return &ledgerServer{clientID: clientID, invoices: []appledger.InvoiceDetailResponse{first, second}}
}

func testConfig(t *testing.T, s *ledgerServer) *config.Config {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	return &config.Config{
		APIClient: config.APIClientConfig{BaseURL: srv.URL, Timeout: time.Second},
		History:   config.HistoryConfig{PageSize: 10, RevealDelay: -1, TimeZone: "UTC"},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("prints the history and the latest invoice", func(t *testing.T) {
		s := newLedgerServer(t)
		var out bytes.Buffer

		err := run(ctx, testConfig(t, s), zap.NewNop(), options{clientID: s.clientID, pages: 1}, &out)
		require.NoError(t, err)

		text := out.String()
		assert.Contains(t, text, "Showing 2 of 2 invoices")
		assert.Less(t, strings.Index(text, "2024-05-01(수) 10:00"), strings.Index(text, "2024-05-01(수) 09:00"),
			"newest invoice is listed first")
		assert.Contains(t, text, "Invoice #2  2024-05-01(수) 10:00")
		assert.Contains(t, text, "nut")
		assert.Contains(t, text, "Subtotal 500  Previous 1,000  Total 1,500  Payment 200  Balance 1,300")
		assert.Contains(t, text, "Note: paid in cash")
		assert.Equal(t, []uuid.UUID{s.invoices[1].ID}, s.requested)
	})

	t.Run("selected invoice replaces the latest in the detail", func(t *testing.T) {
		s := newLedgerServer(t)
		var out bytes.Buffer

		opts := options{clientID: s.clientID, invoiceID: s.invoices[0].ID, pages: 2}
		err := run(ctx, testConfig(t, s), zap.NewNop(), opts, &out)
		require.NoError(t, err)

		text := out.String()
		assert.Contains(t, text, "Invoice #1  2024-05-01(수) 09:00")
		assert.Contains(t, text, "bolt")
		assert.NotContains(t, text, "Invoice #2")
	})

	t.Run("unknown invoice is not found", func(t *testing.T) {
		s := newLedgerServer(t)
		var out bytes.Buffer

		opts := options{clientID: s.clientID, invoiceID: uuid.New(), pages: 1}
		err := run(ctx, testConfig(t, s), zap.NewNop(), opts, &out)
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("empty history prints no detail", func(t *testing.T) {
		s := newLedgerServer(t)
		s.invoices = nil
		var out bytes.Buffer

		err := run(ctx, testConfig(t, s), zap.NewNop(), options{clientID: s.clientID, pages: 1}, &out)
		require.NoError(t, err)
		assert.Equal(t, "Showing 0 of 0 invoices\n", out.String())
	})

	t.Run("unavailable server is reported", func(t *testing.T) {
		s := newLedgerServer(t)
		s.failList = true
		var out bytes.Buffer

		err := run(ctx, testConfig(t, s), zap.NewNop(), options{clientID: s.clientID, pages: 1}, &out)
		require.Error(t, err)
		assert.True(t, shared.IsTransient(err))
		assert.Empty(t, out.String())
	})

	t.Run("bad time zone fails before any request", func(t *testing.T) {
		s := newLedgerServer(t)
		cfg := testConfig(t, s)
		cfg.History.TimeZone = "Mars/Olympus"

		err := run(ctx, cfg, zap.NewNop(), options{clientID: s.clientID, pages: 1}, &bytes.Buffer{})
		assert.Error(t, err)
		assert.Empty(t, s.requested)
	})
}

func TestParseOptions(t *testing.T) {
	id := uuid.New()

	opts, err := parseOptions(id.String(), "", 3)
	require.NoError(t, err)
	assert.Equal(t, options{clientID: id, pages: 3}, opts)

	tests := []struct {
		name    string
		client  string
		invoice string
		pages   int
	}{
		{"missing client", "", "", 1},
		{"malformed client", "client-7", "", 1},
		{"malformed invoice", id.String(), "latest", 1},
		{"no pages", id.String(), "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptions(tt.client, tt.invoice, tt.pages)
			assert.Error(t, err)
		})
	}
}
