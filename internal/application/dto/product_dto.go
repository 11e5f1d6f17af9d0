package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
	LowStock *int64          `json:"low_stock_threshold,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	StoreID    string          `json:"store_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Stock      int64           `json:"stock"`
	Cost       decimal.Decimal `json:"cost"`
	Price      decimal.Decimal `json:"price"`
	LowStock   *int64          `json:"low_stock_threshold,omitempty"`
	RetailID   *string         `json:"retail_product_id,omitempty"`
	RetailRate int64           `json:"retail_rate,omitempty"`
	ParentID   *string         `json:"parent_product_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
