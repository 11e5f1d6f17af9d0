package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Números de lote reservados para lotes sin metadata de recepción.
const (
	BatchNumberGeneric    = "GENERICO"   // entrada manual sin lote (conteo físico, etc.)
	BatchNumberCorrection = "CORRECCION" // lote creado por la reconciliación para cubrir faltantes
)

// Batch representa un lote fechado de stock de un producto.
// Invariante: Stock >= 0. BatchNumber debería ser único por producto, pero el
// sistema tolera duplicados históricos y los repara la reconciliación.
type Batch struct {
	ID          string
	ProductID   string
	BatchNumber string
	Stock       int64
	ExpiryDate  *time.Time       // nil = "no vence": ordena después de todos los fechados
	UnitCost    *decimal.Decimal // costo de compra por unidad de este lote (opcional)
	ReceivedAt  time.Time
}

// ExpiresBefore define el orden FEFO entre dos lotes: vencimiento ascendente con
// nulos al final, y fecha de recepción ascendente como desempate estable.
func (b *Batch) ExpiresBefore(other *Batch) bool {
	switch {
	case b.ExpiryDate == nil && other.ExpiryDate == nil:
		return b.ReceivedAt.Before(other.ReceivedAt)
	case b.ExpiryDate == nil:
		return false
	case other.ExpiryDate == nil:
		return true
	case b.ExpiryDate.Equal(*other.ExpiryDate):
		return b.ReceivedAt.Before(other.ReceivedAt)
	default:
		return b.ExpiryDate.Before(*other.ExpiryDate)
	}
}
