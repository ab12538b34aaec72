// Package apiclient talks to a remote ledger backend over its HTTP API.
// Client satisfies the history view models' read ports, so the views can run
// against a server instead of an in-process query service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/application/history"
	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	apiPrefix            = "/api/v1"
	requestIDHeader      = "X-Request-ID"
	idempotencyKeyHeader = "Idempotency-Key"

	// maxErrorBody bounds how much of a non-JSON error body is kept in the error message
	maxErrorBody = 512
)

// Client is a ledger API client
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the server at cfg.BaseURL
func New(cfg config.APIClientConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListInvoicesForClient fetches a client's invoice history, newest first
func (c *Client) ListInvoicesForClient(ctx context.Context, clientID uuid.UUID) ([]appledger.InvoiceSummaryResponse, error) {
	var rows []appledger.InvoiceSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/clients/"+clientID.String()+"/invoices", nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetInvoiceDetail fetches one invoice with its line items and summary block
func (c *Client) GetInvoiceDetail(ctx context.Context, invoiceID uuid.UUID) (*appledger.InvoiceDetailResponse, error) {
	var detail appledger.InvoiceDetailResponse
	if err := c.do(ctx, http.MethodGet, "/invoices/"+invoiceID.String()+"/detail", nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// RecordInvoice submits an invoice. A non-empty req.IdempotencyKey is sent as the Idempotency-Key header.
func (c *Client) RecordInvoice(ctx context.Context, req appledger.RecordInvoiceRequest) (*appledger.RecordInvoiceResponse, error) {
	headers := http.Header{}
	if req.IdempotencyKey != "" {
		headers.Set(idempotencyKeyHeader, req.IdempotencyKey)
	}
	var out appledger.RecordInvoiceResponse
	if err := c.do(ctx, http.MethodPost, "/invoices", req, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// envelope mirrors dto.Response with the data left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	endpoint := c.baseURL.JoinPath(apiPrefix, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Warn("ledger api unreachable",
			zap.String("method", method),
			zap.String("url", endpoint.String()),
			zap.Error(err),
		)
		return shared.NewTransientError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.NewTransientError(err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, nil, truncate(string(raw)))
		}
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return statusError(resp.StatusCode, env.Error, "")
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s data: %w", method, path, err)
	}
	return nil
}

// statusError rebuilds the domain error the server reported
func statusError(status int, info *dto.ErrorInfo, body string) error {
	message := body
	code := ""
	field := ""
	if info != nil {
		code, message, field = info.Code, info.Message, info.Field
	}

	switch {
	case code == dto.ErrCodeValidation:
		return shared.NewValidationError(field, message)
	case code == dto.ErrCodeNotFound || status == http.StatusNotFound:
		return shared.NewDomainError(shared.CodeNotFound, message)
	case code == dto.ErrCodeDuplicateRequest:
		return shared.NewDomainError(shared.CodeDuplicateRequest, message)
	case code == dto.ErrCodeTransaction:
		return shared.NewTransactionError(errors.New(message))
	case code == dto.ErrCodeUnavailable,
		status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable,
		status == http.StatusGatewayTimeout:
		return shared.NewTransientError(fmt.Errorf("server returned %d: %s", status, message))
	default:
		return fmt.Errorf("ledger api returned %d %s: %s", status, code, message)
	}
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

var (
	_ history.InvoiceLister       = (*Client)(nil)
	_ history.InvoiceDetailLoader = (*Client)(nil)
)
