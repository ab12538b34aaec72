package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
)

// IdempotencyKeyHeader lets a caller mark an invoice submit so a retry is not recorded twice
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the header value kept in the store
const maxIdempotencyKeyLength = 128

// InvoiceParam is the route parameter naming an invoice
const InvoiceParam = "invoice_id"

// InvoiceHandler handles invoice recording and history reads
type InvoiceHandler struct {
	BaseHandler
	ledger  *appledger.LedgerService
	queries *appledger.QueryService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(ledger *appledger.LedgerService, queries *appledger.QueryService) *InvoiceHandler {
	return &InvoiceHandler{
		ledger:  ledger,
		queries: queries,
	}
}

// Record records an invoice with its line items.
// POST /invoices
func (h *InvoiceHandler) Record(c *gin.Context) {
	var req appledger.RecordInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.FieldError(c, IdempotencyKeyHeader, IdempotencyKeyHeader+" is too long")
		return
	}
	req.IdempotencyKey = key

	resp, err := h.ledger.RecordInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListForClient returns a client's invoice history, newest first.
// GET /clients/:client_id/invoices
func (h *InvoiceHandler) ListForClient(c *gin.Context) {
	clientID, ok := h.ParseUUIDParam(c, logger.ClientIDParam)
	if !ok {
		return
	}

	invoices, err := h.queries.ListInvoicesForClient(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, invoices, len(invoices))
}

// GetDetail returns an invoice with its line items and summary block.
// GET /invoices/:invoice_id/detail
func (h *InvoiceHandler) GetDetail(c *gin.Context) {
	invoiceID, ok := h.ParseUUIDParam(c, InvoiceParam)
	if !ok {
		return
	}

	detail, err := h.queries.GetInvoiceDetail(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
