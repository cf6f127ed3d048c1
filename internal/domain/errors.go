package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected working copy. Only the first failing rule is ever reported.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrNameRequired         = &ValidationError{Field: "name", Message: "Product name is required"}
	ErrBuyPriceNotPositive  = &ValidationError{Field: "buy_price", Message: "Buy price must be greater than 0"}
	ErrSellPriceNotPositive = &ValidationError{Field: "sell_price", Message: "Sell price must be greater than 0"}

	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)

// PersistenceError wraps a failure reported by the catalog store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s product: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Validate checks the rules a product must satisfy before it is written:
// name, then buy price, then sell price.
func Validate(f ProductFields) error {
	if f.Name == "" {
		return ErrNameRequired
	}
	if !f.BuyPrice.IsPositive() {
		return ErrBuyPriceNotPositive
	}
	if !f.SellPrice.IsPositive() {
		return ErrSellPriceNotPositive
	}
	return nil
}
