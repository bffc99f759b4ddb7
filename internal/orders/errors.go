package orders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("Order not found")
	ErrNotOwner         = errors.New("Unauthorized")
	ErrAlreadyCancelled = errors.New("Order already cancelled")
	ErrNotCancellable   = errors.New("Cannot cancel order that has been shipped or delivered")
	ErrProductNotFound  = errors.New("product not found")
)

// InsufficientStockError names the first line item that cannot be fulfilled.
type InsufficientStockError struct {
	ProductName string
	Size        string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s (%s). Available: %d, Requested: %d",
		e.ProductName, e.Size, e.Available, e.Requested)
}
