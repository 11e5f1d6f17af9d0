package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE): es el punto de
// serialización por producto de todas las operaciones del libro de inventario.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(productID string, stock int64) error
	UpdateCost(productID string, cost decimal.Decimal) error
	SetRetail(parentID, retailID string, rate int64) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
	ListIDs(storeID string) ([]string, error)
	// ListBelowThreshold devuelve los productos de la tienda cuyo stock quedó
	// en o por debajo de su umbral de stock bajo (para alertas post-operación).
	ListBelowThreshold(storeID string) ([]*entity.Product, error)
}
