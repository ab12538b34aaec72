package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/cache"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/infrastructure/persistence"
	"github.com/invoicebook/backend/internal/infrastructure/persistence/models"
	"github.com/invoicebook/backend/internal/interfaces/http/dto"
	"github.com/invoicebook/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// stepClock advances one minute per reading so consecutive invoices have distinct creation times
type stepClock struct {
	mu   sync.Mutex
	next time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

type ledgerAPI struct {
	engine *gin.Engine
	db     *gorm.DB
}

// newLedgerAPI wires the handlers to services backed by an in-memory sqlite store
func newLedgerAPI(t *testing.T) *ledgerAPI {
	t.Helper()

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(models.LedgerModels()...))

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	clock := &stepClock{next: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	clientRepo := persistence.NewGormClientRepository(database.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(database.DB)

	clients := NewClientHandler(appledger.NewClientService(clientRepo, nil, appledger.WithClientClock(clock)))
	invoices := NewInvoiceHandler(
		appledger.NewLedgerService(persistence.NewGormTransactionScope(database.DB), nil,
			appledger.WithClock(clock),
			appledger.WithIdempotencyStore(idempotency, time.Hour),
		),
		appledger.NewQueryService(clientRepo, invoiceRepo),
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	api.POST("/clients", clients.Create)
	api.GET("/clients", clients.List)
	api.GET("/clients/:client_id", clients.Get)
	api.PUT("/clients/:client_id/favorite", clients.SetFavorite)
	api.GET("/clients/:client_id/invoices", invoices.ListForClient)
	api.POST("/invoices", invoices.Record)
	api.GET("/invoices/:invoice_id/detail", invoices.GetDetail)

	return &ledgerAPI{engine: engine, db: database.DB}
}

// do sends a request with an optional JSON body and decodes the envelope
func (a *ledgerAPI) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

// decodeData re-decodes the envelope's data into out
func decodeData(t *testing.T, resp dto.Response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func (a *ledgerAPI) createClient(t *testing.T, name string) appledger.ClientResponse {
	t.Helper()
	w, resp := a.do(t, http.MethodPost, "/api/v1/clients", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client appledger.ClientResponse
	decodeData(t, resp, &client)
	return client
}

var _ shared.Clock = (*stepClock)(nil)
