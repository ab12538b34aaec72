package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/invoicebook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps store errors onto domain errors.
// A missing row becomes NotFound for resource; lost connections become Transient.
// Anything else is returned unchanged for the caller to classify.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	if isTransient(err) {
		return shared.NewTransientError(err)
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
