package repository

import "github.com/tu-usuario/tienda-pos/internal/domain/entity"

// BatchRepository define el puerto de persistencia para lotes.
// Acceso puro a datos: los invariantes (stock >= 0, agregado == suma de lotes)
// los garantizan los casos de uso dentro de la transacción.
type BatchRepository interface {
	// ListActive devuelve los lotes con stock > 0 de un producto en orden FEFO:
	// vencimiento ascendente con nulos al final, recepción ascendente como desempate.
	ListActive(productID string) ([]*entity.Batch, error)
	// ListByProduct devuelve todos los lotes del producto (incluye stock cero),
	// usado por la reconciliación.
	ListByProduct(productID string) ([]*entity.Batch, error)
	GetByID(id string) (*entity.Batch, error)
	Create(batch *entity.Batch) error
	UpdateStock(batchID string, stock int64) error
	Delete(batchID string) error
}
