package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger failure taxonomy. Callers match them with
// errors.Is; the richer conflict errors below are matched with errors.As.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// InsufficientStockError is returned when a sale would drive a product's
// stock negative. It carries the product identity and the amounts involved
// so the caller can re-prompt the operator.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   float64
	Requested   float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %g, requested %g",
		e.ProductName, e.Available, e.Requested)
}

// ReferentialConflictError is returned when a delete is blocked by dependent
// rows (supplier with deliveries, client with sales, product with history).
type ReferentialConflictError struct {
	Entity string
	ID     uint
	Reason string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %s", e.Entity, e.ID, e.Reason)
}

func notFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
