package ledger

import (
	"context"

	"github.com/invoicebook/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// All repository operations performed inside Execute are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories that share one transaction
type TransactionalRepositories interface {
	// ClientRepo returns the client repository scoped to the current transaction
	ClientRepo() ledger.ClientRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() ledger.InvoiceRepository
}

// NoOpTransactionScope runs the function directly against the given repositories.
// It is used in tests where atomicity is asserted elsewhere.
type NoOpTransactionScope struct {
	clientRepo  ledger.ClientRepository
	invoiceRepo ledger.InvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(clientRepo ledger.ClientRepository, invoiceRepo ledger.InvoiceRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ClientRepo returns the client repository
func (s *NoOpTransactionScope) ClientRepo() ledger.ClientRepository {
	return s.clientRepo
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() ledger.InvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
