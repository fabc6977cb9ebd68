package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	ErrEmptyCart = errors.New("cart is empty")

	// ErrStockRace means the conditional decrement affected zero rows after
	// validation had passed: a concurrent sale won the race. The transaction
	// is rolled back and the caller may retry the whole checkout.
	ErrStockRace = errors.New("stock race lost")

	ErrInvalidToken       = errors.New("invalid recovery token")
	ErrTokenExpiredOrUsed = errors.New("recovery token expired or used")
	ErrSamePassword       = errors.New("new password matches current password")

	ErrExternalDependency = errors.New("external dependency failure")

	// ErrInconsistentState marks a checkout that failed after stock had been
	// decremented. The surrounding transaction restores stock; the error is
	// surfaced for operator attention and never retried internally.
	ErrInconsistentState = errors.New("inconsistent checkout state")
)

type StockShortfall struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"product"`
	Requested uint   `json:"requested"`
	Available uint   `json:"available"`
}

// InsufficientStockError carries one entry per cart line whose requested
// quantity exceeds the available stock.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shortfalls))
}
