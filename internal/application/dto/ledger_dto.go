package dto

import "github.com/shopspring/decimal"

// ReceiveRequest entrada de mercancía. ExpiryDate en formato YYYY-MM-DD.
type ReceiveRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    int64            `json:"quantity"`
	ExpiryDate  string           `json:"expiry_date,omitempty"`
	BatchNumber string           `json:"batch_number,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Generic     bool             `json:"generic,omitempty"` // true = entrada sin metadata de lote
}

// DeductRequest salida de stock (venta) con política FEFO.
type DeductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// AdjustRequest ajuste de inventario (no venta). Quantity con signo.
type AdjustRequest struct {
	ProductID string  `json:"product_id"`
	BatchID   *string `json:"batch_id,omitempty"`
	Quantity  int64   `json:"quantity"`
	Kind      string  `json:"kind"` // WASTE, DAMAGED, EXPIRED, CORRECTION
	Reason    string  `json:"reason,omitempty"`
}

// AdjustResponse resultado de un ajuste.
type AdjustResponse struct {
	AdjustmentID string          `json:"adjustment_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// SetupRetailRequest crea la presentación al detal de un producto padre.
type SetupRetailRequest struct {
	ConversionRate int64           `json:"conversion_rate"`
	RetailUnit     string          `json:"retail_unit"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
}
