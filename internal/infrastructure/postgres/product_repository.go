package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, store_id, sku, name, unit, stock, cost, price, low_stock_threshold,
		expiry_date, retail_product_id, retail_rate, parent_product_id, deleted_at, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, store_id, sku, name, unit, stock, cost, price, low_stock_threshold,
			expiry_date, retail_product_id, retail_rate, parent_product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.StoreID, product.SKU, product.Name, product.Unit,
		product.Stock, product.Cost, product.Price, product.LowStock,
		product.ExpiryDate, product.RetailID, product.RetailRate, product.ParentID,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Unit, &p.Stock, &p.Cost, &p.Price,
		&p.LowStock, &p.ExpiryDate, &p.RetailID, &p.RetailRate, &p.ParentID,
		&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID (excluye soft-deleted).
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Es el punto de serialización de todas las operaciones del libro de inventario
// sobre ese producto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStock actualiza el agregado de stock del producto.
func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	query := `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza el costo por defecto del producto (promedio ponderado).
func (r *ProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// SetRetail enlaza el producto padre con su presentación al detal y la tasa de conversión.
func (r *ProductRepo) SetRetail(parentID, retailID string, rate int64) error {
	query := `UPDATE products SET retail_product_id = $2, retail_rate = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, parentID, retailID, rate)
	if err != nil {
		return fmt.Errorf("set retail link: %w", err)
	}
	return nil
}

// ListByStore lista productos de una tienda con paginación.
func (r *ProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE store_id = $1 AND deleted_at IS NULL
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Unit, &p.Stock, &p.Cost, &p.Price,
			&p.LowStock, &p.ExpiryDate, &p.RetailID, &p.RetailRate, &p.ParentID,
			&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// ListBelowThreshold devuelve los productos con umbral configurado cuyo stock
// quedó en o por debajo de él.
func (r *ProductRepo) ListBelowThreshold(storeID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND deleted_at IS NULL
		  AND low_stock_threshold IS NOT NULL AND stock <= low_stock_threshold
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Unit, &p.Stock, &p.Cost, &p.Price,
			&p.LowStock, &p.ExpiryDate, &p.RetailID, &p.RetailRate, &p.ParentID,
			&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// ListIDs devuelve los IDs de productos activos (de una tienda, o de todas si storeID es vacío).
// Usado por el escaneo de reconciliación.
func (r *ProductRepo) ListIDs(storeID string) ([]string, error) {
	query := `SELECT id FROM products WHERE deleted_at IS NULL AND ($1 = '' OR store_id = $1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
