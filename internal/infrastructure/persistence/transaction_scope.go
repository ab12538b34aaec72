package persistence

import (
	"context"

	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within one database transaction.
// Any error from fn, or a failed commit, rolls every write back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	if err != nil {
		return translateError(err, "record")
	}
	return nil
}

// gormTransactionalRepositories provides repositories bound to the current transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ClientRepo returns the client repository scoped to the current transaction
func (r *gormTransactionalRepositories) ClientRepo() ledger.ClientRepository {
	return NewGormClientRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) InvoiceRepo() ledger.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
