package ledger

import (
	"context"

	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// inventario: todo lo leído y escrito dentro de fn se confirma o se revierte
// como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		adjRepo repository.AdjustmentRepository,
	) error) error
}

// StockNotifier es el colaborador externo que se dispara después de cualquier
// operación que afecta stock. Fire-and-forget: nunca bloquea ni falla la
// operación que lo origina (los errores del notificador se registran en log).
type StockNotifier interface {
	StockChanged(storeID string)
}

// NopNotifier implementación nula para tests y para el cmd de reconciliación.
type NopNotifier struct{}

// StockChanged no hace nada.
func (NopNotifier) StockChanged(string) {}
