package ledger

import (
	"context"
	"time"

	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LedgerService records invoices and propagates their payments into client balances
type LedgerService struct {
	txScope     TransactionScope
	publisher   shared.EventPublisher
	idempotency shared.IdempotencyStore
	keyTTL      time.Duration
	clock       shared.Clock
	logger      *zap.Logger
}

// LedgerServiceOption configures a LedgerService
type LedgerServiceOption func(*LedgerService)

// WithClock overrides the clock that stamps invoice creation times
func WithClock(clock shared.Clock) LedgerServiceOption {
	return func(s *LedgerService) { s.clock = clock }
}

// WithEventPublisher sets the publisher for post-commit events
func WithEventPublisher(publisher shared.EventPublisher) LedgerServiceOption {
	return func(s *LedgerService) { s.publisher = publisher }
}

// WithIdempotencyStore enables duplicate-submit detection for requests carrying a key
func WithIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) LedgerServiceOption {
	return func(s *LedgerService) {
		s.idempotency = store
		s.keyTTL = ttl
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(txScope TransactionScope, logger *zap.Logger, opts ...LedgerServiceOption) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LedgerService{
		txScope: txScope,
		keyTTL:  shared.DefaultIdempotencyConfig().TTL,
		clock:   shared.SystemClock,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordInvoice inserts an invoice and its line items as one unit.
// When the payment is positive the client's balance is set to the supplied snapshot
// in the same transaction. Nothing is persisted if any step fails.
func (s *LedgerService) RecordInvoice(ctx context.Context, req RecordInvoiceRequest) (*RecordInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_invoice")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrClientID, req.ClientID.String(),
		telemetry.SpanAttrInvoiceNo, req.No,
		telemetry.SpanAttrItemsCount, len(req.Details),
	)

	if err := validateRequest(req); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.clock.Now()
	invoice, err := ledger.NewInvoice(req.toInput(), now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	claimed, err := s.claimKey(ctx, req.IdempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var client *ledger.Client
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		c, err := repos.ClientRepo().FindByID(ctx, invoice.ClientID)
		if err != nil {
			return err
		}
		client = c

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveDetails(ctx, invoice.Details); err != nil {
			return err
		}

		if invoice.HasPayment() {
			if err := repos.ClientRepo().UpdateBalance(ctx, client.ID, invoice.Balance, now); err != nil {
				return err
			}
			client.ApplyBalanceSnapshot(invoice.Balance, now)
		}
		return nil
	})
	if err != nil {
		err = classifyTxError(err)
		s.releaseKey(ctx, claimed)
		s.logger.Warn("invoice not recorded",
			zap.String("client_id", req.ClientID.String()),
			zap.Int64("invoice_no", req.No),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("invoice recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("client_id", invoice.ClientID.String()),
		zap.Int64("invoice_no", invoice.No),
		zap.Int("items", len(invoice.Details)),
		zap.Bool("balance_updated", invoice.HasPayment()),
	)

	events := []shared.DomainEvent{ledger.NewInvoiceRecordedEvent(invoice)}
	events = append(events, client.GetDomainEvents()...)
	client.ClearDomainEvents()
	s.publish(ctx, events)

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, invoice.ID.String())
	telemetry.SetOK(span)

	return &RecordInvoiceResponse{InvoiceID: invoice.ID}, nil
}

// classifyTxError keeps typed domain errors and wraps anything else as a TransactionError
func classifyTxError(err error) error {
	if de, ok := shared.AsDomainError(err); ok {
		switch de.Code {
		case shared.CodeValidation, shared.CodeNotFound, shared.CodeTransient, shared.CodeTransaction:
			return err
		}
	}
	return shared.NewTransactionError(err)
}

// claimKey marks the idempotency key as processed. It returns the claimed key, or "" when none applies.
func (s *LedgerService) claimKey(ctx context.Context, key string) (string, error) {
	if key == "" || s.idempotency == nil {
		return "", nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, idempotencyKey(key), s.keyTTL)
	if err != nil {
		return "", shared.NewTransientError(err)
	}
	if !fresh {
		return "", shared.ErrDuplicateRequest
	}
	return key, nil
}

// releaseKey forgets a claimed key after a failed write so the caller may retry it
func (s *LedgerService) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, idempotencyKey(key)); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func idempotencyKey(key string) string {
	return "invoice:" + key
}

// publish delivers post-commit events. Failures are logged and never change the outcome.
func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish ledger events", zap.Error(err))
	}
}
