package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
)

func TestCompute_Invariant(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		price    float64
		taxRate  float64
	}{
		{"simple", 2, 79.00, 13},
		{"single unit", 1, 0.01, 5},
		{"free product", 3, 0, 13},
		{"zero tax", 4, 19.99, 0},
		{"full tax", 1, 100, 100},
		{"large quantity", 999, 12.34, 7.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.quantity, tc.price, tc.taxRate)
			assert.Equal(t, tc.price*float64(tc.quantity), got.Subtotal)
			assert.Equal(t, got.Subtotal*tc.taxRate/100, got.TaxAmount)
			assert.Equal(t, got.Subtotal+got.TaxAmount, got.Total)
		})
	}
}

func TestValidate_AcceptsOwnComputation(t *testing.T) {
	amounts := Compute(2, 79.00, 13)
	res := Validate(2, 79.00, 13, amounts.Subtotal, amounts.TaxAmount, amounts.Total)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Violations)
}

func TestValidate_ToleranceBoundary(t *testing.T) {
	// quantity=2, price=79.00, rate=13 -> subtotal=158.00, tax=20.54, total=178.54
	cases := []struct {
		name  string
		tax   float64
		valid bool
	}{
		{"exact", 20.54, true},
		{"well within tolerance", 20.545, true},
		{"boundary delta fails", 20.55, false},
		{"beyond boundary fails", 20.551, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(2, 79.00, 13, 158.00, tc.tax, 158.00+tc.tax)
			assert.Equal(t, tc.valid, res.Valid)
		})
	}
}

func TestValidate_ReportsEveryMismatch(t *testing.T) {
	res := Validate(2, 79.00, 13, 100.00, 5.00, 105.00)
	require.False(t, res.Valid)
	require.Len(t, res.Violations, 3)

	fields := make([]string, len(res.Violations))
	for i, v := range res.Violations {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{"subtotal", "tax_amount", "total"}, fields)

	assert.InDelta(t, 158.00, res.Violations[0].Expected, 1e-9)
	assert.InDelta(t, 100.00, res.Violations[0].Actual, 1e-9)
}

func TestCheckQuantity_PhysicalBoundedByInventory(t *testing.T) {
	require.NoError(t, CheckQuantity(domain.CategoryPhysical, 5, 5))

	err := CheckQuantity(domain.CategoryPhysical, 6, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 available, 6 requested")
}

func TestCheckQuantity_ServiceUnlimited(t *testing.T) {
	assert.NoError(t, CheckQuantity(domain.CategoryService, 1000, 0))
}

func TestCheckQuantity_RejectsNonPositive(t *testing.T) {
	assert.Error(t, CheckQuantity(domain.CategoryService, 0, 10))
	assert.Error(t, CheckQuantity(domain.CategoryPhysical, -1, 10))
}
