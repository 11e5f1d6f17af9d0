package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible de la tienda.
// Stock es el agregado denominado "stock actual": cuando el producto tiene lotes,
// debe ser siempre igual a la suma del stock de sus lotes activos (invariante del
// libro de inventario). Sin lotes, Stock es la única fuente de verdad.
type Product struct {
	ID          string
	StoreID     string
	SKU         string // código único por tienda
	Name        string
	Unit        string          // unidad de medida (ej. "und", "kg", "bulto")
	Stock       int64           // agregado, entero no negativo
	Cost        decimal.Decimal // costo de compra por defecto
	Price       decimal.Decimal // precio de venta
	LowStock    *int64          // umbral de stock bajo (opcional)
	ExpiryDate  *time.Time      // vencimiento a nivel producto (legado, fallback sin lotes)
	RetailID    *string         // producto al detal derivado (hijo de conversión)
	RetailRate  int64           // unidades al detal que rinde una unidad padre (>0 si RetailID != nil)
	ParentID    *string         // producto padre del que fue convertido (hijo -> padre)
	DeletedAt   *time.Time      // soft delete; nunca se borra físicamente
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasRetail indica si el producto ya tiene una presentación al detal enlazada.
func (p *Product) HasRetail() bool {
	return p.RetailID != nil && *p.RetailID != ""
}
