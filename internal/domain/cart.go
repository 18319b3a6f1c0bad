package domain

// CartItem is one staged line item, resident only in the session store until
// checkout. Product fields are frozen at add-to-cart time and never re-read
// from the catalog for this item; quantity changes are modeled as
// remove-and-re-add, so the struct is effectively immutable once written.
type CartItem struct {
	ItemID         string   `json:"item_id"`
	OrderID        string   `json:"order_id"`
	ProductID      string   `json:"product_id"`
	ProductName    string   `json:"product_name"`
	Category       Category `json:"category"`
	InsuranceType  string   `json:"insurance_type,omitempty"`
	InsuranceLimit string   `json:"insurance_limit,omitempty"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
	Quantity       int      `json:"quantity"`
	UnitPrice      float64  `json:"unit_price"`
	TaxRatePercent float64  `json:"tax_rate_percent"`
	Subtotal       float64  `json:"subtotal"`
	TaxAmount      float64  `json:"tax_amount"`
	Total          float64  `json:"total"`
}
