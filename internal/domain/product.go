package domain

// Category distinguishes inventoried goods from services. It is decided once
// at the boundary where product data enters the system; nothing downstream
// compares raw catalog strings.
type Category string

const (
	CategoryPhysical Category = "PHYSICAL"
	CategoryService  Category = "SERVICE"
)

func (c Category) String() string {
	return string(c)
}

// CategoryFromCatalog maps the record store's free-form category string onto
// the closed set. The catalog marks inventoried goods as "general"; everything
// else (insurance, memberships, subscriptions) behaves as a service with
// unlimited quantity.
func CategoryFromCatalog(raw string) Category {
	if raw == "general" {
		return CategoryPhysical
	}
	return CategoryService
}

// Product is the reference-lookup view of a catalog entry. Price, tax rate and
// the insurance fields are snapshotted into cart items at add time; Inventory
// is always read live.
type Product struct {
	ID             string
	Name           string
	Price          float64
	TaxRatePercent float64
	Category       Category
	Inventory      int
	InsuranceType  string
	InsuranceLimit string
	AdditionalInfo string
}
