package domain

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// orderTransitions is the allowed forward edges of the order workflow.
// Checkout moves DRAFT to SUBMITTED; the rest belongs to downstream payment
// and fulfilment flows but is validated here so no caller can skip a state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:     {OrderStatusSubmitted, OrderStatusCancelled},
	OrderStatusSubmitted: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCompleted},
	OrderStatusShipped:   {OrderStatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Order is the durable anchor record that staged cart items attach to at
// checkout. At most one DRAFT order exists per buyer at a time, enforced by
// get-or-create rather than a store constraint.
type Order struct {
	ID             string        `json:"id"`
	BuyerID        string        `json:"buyer_id"`
	OrganizationID string        `json:"organization_id"`
	OrderStatus    OrderStatus   `json:"order_status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Subtotal       float64       `json:"subtotal"`
	Total          float64       `json:"total"`
	CreatedAt      time.Time     `json:"created_at"`
}

// OrderLine is the durable record-store representation of a checked-out cart
// item. Snapshot fields mirror CartItem and never change after creation.
type OrderLine struct {
	ID             string   `json:"id"`
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

// CheckoutResult summarizes a completed checkout.
type CheckoutResult struct {
	Lines    []OrderLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
	Tax      float64     `json:"tax"`
	Total    float64     `json:"total"`
}
