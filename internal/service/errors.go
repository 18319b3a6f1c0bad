package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/pricing"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrProductNotFound    = errors.New("product not found")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this order")
)

// RuleViolationError carries every business rule an add-to-cart request
// violated, so the caller can show them all at once.
type RuleViolationError struct {
	Rules []string
}

func (e *RuleViolationError) Error() string {
	return "business rule violation: " + strings.Join(e.Rules, "; ")
}

// AmountValidationError reports a staged item whose stored amounts no longer
// match recomputation.
type AmountValidationError struct {
	ItemID string
	Result pricing.Result
}

func (e *AmountValidationError) Error() string {
	return fmt.Sprintf("item %s: %s", e.ItemID, e.Result.Error())
}

// DurableWriteError reports a failed checkout persist. Compensated tells the
// caller whether the already-created lines were rolled back.
type DurableWriteError struct {
	OrderID     string
	Created     int
	Compensated bool
	Err         error
}

func (e *DurableWriteError) Error() string {
	return fmt.Sprintf("checkout persist failed for order %s (%d lines created, compensated=%t): %v",
		e.OrderID, e.Created, e.Compensated, e.Err)
}

func (e *DurableWriteError) Unwrap() error {
	return e.Err
}
