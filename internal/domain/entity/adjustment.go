package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentKind es el tipo cerrado de ajuste de inventario (no venta).
type AdjustmentKind string

// Tipos de ajuste válidos.
const (
	AdjustmentWaste      AdjustmentKind = "WASTE"      // merma
	AdjustmentDamaged    AdjustmentKind = "DAMAGED"    // producto dañado
	AdjustmentExpired    AdjustmentKind = "EXPIRED"    // producto vencido
	AdjustmentCorrection AdjustmentKind = "CORRECTION" // corrección manual (puede ser positiva)
)

// IsValid verifica que el tipo pertenezca al conjunto cerrado.
func (k AdjustmentKind) IsValid() bool {
	switch k {
	case AdjustmentWaste, AdjustmentDamaged, AdjustmentExpired, AdjustmentCorrection:
		return true
	}
	return false
}

// String devuelve la representación textual del tipo.
func (k AdjustmentKind) String() string { return string(k) }

// AllAdjustmentKinds devuelve los tipos válidos (para validación y reportes).
func AllAdjustmentKinds() []AdjustmentKind {
	return []AdjustmentKind{AdjustmentWaste, AdjustmentDamaged, AdjustmentExpired, AdjustmentCorrection}
}

// Adjustment es el registro de auditoría inmutable de un cambio de stock que no
// es una venta. Una vez creado nunca se modifica ni se borra.
// Quantity es con signo: negativo = pérdida, positivo = corrección a favor.
// TotalValue = Quantity * UnitCost (conserva el signo).
type Adjustment struct {
	ID         string
	ProductID  string
	BatchID    *string
	Quantity   int64
	Kind       AdjustmentKind
	Reason     string
	UnitCost   decimal.Decimal // snapshot del costo unitario al momento del ajuste
	TotalValue decimal.Decimal
	CreatedBy  string
	CreatedAt  time.Time
}
