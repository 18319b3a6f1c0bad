package repository

import (
	"context"
	"fmt"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
)

const orderLineSet = "order_lines"

type orderLineRecord struct {
	ID             string  `json:"id,omitempty"`
	OrderID        string  `json:"order_id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	InsuranceType  string  `json:"insurance_type,omitempty"`
	InsuranceLimit string  `json:"insurance_limit,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TaxRate        float64 `json:"tax_rate"`
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

func NewOrderLineRepository(client *recordstore.Client) *RecordStoreOrderLines {
	return &RecordStoreOrderLines{client: client}
}

type RecordStoreOrderLines struct {
	client *recordstore.Client
}

func (r *RecordStoreOrderLines) Create(ctx context.Context, line domain.OrderLine) (*domain.OrderLine, error) {
	rec := lineToRecord(line)
	rec.ID = "" // assigned by the record store
	var created orderLineRecord
	if err := r.client.Create(ctx, orderLineSet, rec, &created); err != nil {
		return nil, fmt.Errorf("create order line for order %s: %w", line.OrderID, err)
	}
	result := lineToDomain(created)
	return &result, nil
}

func (r *RecordStoreOrderLines) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	var recs []orderLineRecord
	filter := fmt.Sprintf("order_id eq '%s'", orderID)
	if err := r.client.List(ctx, orderLineSet, filter, &recs); err != nil {
		return nil, fmt.Errorf("list order lines for order %s: %w", orderID, err)
	}
	lines := make([]domain.OrderLine, len(recs))
	for i, rec := range recs {
		lines[i] = lineToDomain(rec)
	}
	return lines, nil
}

func (r *RecordStoreOrderLines) FindByID(ctx context.Context, id string) (*domain.OrderLine, error) {
	var rec orderLineRecord
	if err := r.client.Get(ctx, orderLineSet, id, &rec); err != nil {
		return nil, fmt.Errorf("find order line %s: %w", id, err)
	}
	line := lineToDomain(rec)
	return &line, nil
}

func (r *RecordStoreOrderLines) Update(ctx context.Context, id string, partial map[string]any) error {
	if err := r.client.Update(ctx, orderLineSet, id, partial); err != nil {
		return fmt.Errorf("update order line %s: %w", id, err)
	}
	return nil
}

func (r *RecordStoreOrderLines) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, orderLineSet, id); err != nil {
		return fmt.Errorf("delete order line %s: %w", id, err)
	}
	return nil
}

func lineToRecord(line domain.OrderLine) orderLineRecord {
	return orderLineRecord{
		ID:             line.ID,
		OrderID:        line.OrderID,
		ProductID:      line.ProductID,
		ProductName:    line.ProductName,
		Category:       line.Category.String(),
		InsuranceType:  line.InsuranceType,
		InsuranceLimit: line.InsuranceLimit,
		AdditionalInfo: line.AdditionalInfo,
		Quantity:       line.Quantity,
		UnitPrice:      line.UnitPrice,
		TaxRate:        line.TaxRatePercent,
		Subtotal:       line.Subtotal,
		TaxAmount:      line.TaxAmount,
		Total:          line.Total,
	}
}

func lineToDomain(rec orderLineRecord) domain.OrderLine {
	return domain.OrderLine{
		ID:             rec.ID,
		OrderID:        rec.OrderID,
		ProductID:      rec.ProductID,
		ProductName:    rec.ProductName,
		Category:       domain.Category(rec.Category),
		InsuranceType:  rec.InsuranceType,
		InsuranceLimit: rec.InsuranceLimit,
		AdditionalInfo: rec.AdditionalInfo,
		Quantity:       rec.Quantity,
		UnitPrice:      rec.UnitPrice,
		TaxRatePercent: rec.TaxRate,
		Subtotal:       rec.Subtotal,
		TaxAmount:      rec.TaxAmount,
		Total:          rec.Total,
	}
}
