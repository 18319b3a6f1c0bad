package repository

import (
	"context"
	"fmt"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/domain"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
)

const productSet = "products"

// productRecord is the record store's wire shape for a catalog entry.
type productRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	TaxRate        float64 `json:"tax_rate"`
	Category       string  `json:"category"`
	Inventory      int     `json:"inventory"`
	InsuranceType  string  `json:"insurance_type,omitempty"`
	InsuranceLimit string  `json:"insurance_limit,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
}

func NewProductCatalog(client *recordstore.Client) *RecordStoreProducts {
	return &RecordStoreProducts{client: client}
}

type RecordStoreProducts struct {
	client *recordstore.Client
}

func (r *RecordStoreProducts) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	var rec productRecord
	if err := r.client.Get(ctx, productSet, productID, &rec); err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return rec.toDomain(), nil
}

// toDomain maps the raw category string onto the closed enum; this is the one
// place the catalog's "general" marker is interpreted.
func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Price:          r.Price,
		TaxRatePercent: r.TaxRate,
		Category:       domain.CategoryFromCatalog(r.Category),
		Inventory:      r.Inventory,
		InsuranceType:  r.InsuranceType,
		InsuranceLimit: r.InsuranceLimit,
		AdditionalInfo: r.AdditionalInfo,
	}
}
