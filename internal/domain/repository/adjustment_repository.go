package repository

import (
	"time"

	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// AdjustmentRepository define el puerto de persistencia para ajustes.
// Solo inserción y lectura: el ajuste es el rastro de auditoría y nunca se
// modifica ni se borra.
type AdjustmentRepository interface {
	Create(adjustment *entity.Adjustment) error
	GetByID(id string) (*entity.Adjustment, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error)
}
