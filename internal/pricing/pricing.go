// Package pricing computes and validates the monetary amounts of cart items.
// All functions are pure; amounts are IEEE doubles and comparisons downstream
// use an absolute tolerance rather than rounding.
package pricing

import (
	"fmt"
	"math"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
)

// Tolerance is the maximum absolute drift allowed between a stored amount and
// its recomputation. Inclusive: a delta of exactly 0.01 still fails.
const Tolerance = 0.01

type Amounts struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Compute derives the three amounts from quantity, unit price and tax rate.
// No rounding is applied; callers compare with Tolerance.
func Compute(quantity int, unitPrice, taxRatePercent float64) Amounts {
	subtotal := unitPrice * float64(quantity)
	tax := subtotal * taxRatePercent / 100
	return Amounts{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax,
	}
}

// Violation reports one amount field that failed recomputation.
type Violation struct {
	Field    string
	Expected float64
	Actual   float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s mismatch: expected %.2f, got %.2f", v.Field, v.Expected, v.Actual)
}

// Result is the outcome of validating stored amounts against recomputation.
type Result struct {
	Valid      bool
	Violations []Violation
}

func (r Result) Error() string {
	msg := "amount validation failed"
	for _, v := range r.Violations {
		msg += "; " + v.String()
	}
	return msg
}

// Validate recomputes the amounts and checks each stored value against the
// expectation. Any single mismatch fails the whole item; all mismatches are
// reported so the caller can surface them together. This guards against
// session tampering or corruption between add-to-cart and checkout.
func Validate(quantity int, unitPrice, taxRatePercent, subtotal, taxAmount, total float64) Result {
	expected := Compute(quantity, unitPrice, taxRatePercent)

	var violations []Violation
	check := func(field string, want, got float64) {
		if math.Abs(want-got) >= Tolerance {
			violations = append(violations, Violation{Field: field, Expected: want, Actual: got})
		}
	}
	check("subtotal", expected.Subtotal, subtotal)
	check("tax_amount", expected.TaxAmount, taxAmount)
	check("total", expected.Total, total)

	return Result{Valid: len(violations) == 0, Violations: violations}
}

// CheckQuantity applies the category rule: physical products are bounded by
// live inventory, services only require a positive quantity.
func CheckQuantity(category domain.Category, quantity, available int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	if category == domain.CategoryPhysical && quantity > available {
		return fmt.Errorf("insufficient inventory: %d available, %d requested", available, quantity)
	}
	return nil
}
