package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, batch_number, stock, expiry_date, unit_cost, received_at`

// BatchRepo implementación del puerto BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// ListActive devuelve los lotes con stock > 0 en orden FEFO: vencimiento
// ascendente con nulos al final y recepción ascendente como desempate.
// Este ORDER BY es el contrato de orden que consume el motor de salidas.
func (r *BatchRepo) ListActive(productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE product_id = $1 AND stock > 0
		ORDER BY expiry_date ASC NULLS LAST, received_at ASC`
	return r.list(query, productID)
}

// ListByProduct devuelve todos los lotes del producto (incluye stock cero).
func (r *BatchRepo) ListByProduct(productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE product_id = $1
		ORDER BY expiry_date ASC NULLS LAST, received_at ASC`
	return r.list(query, productID)
}

func (r *BatchRepo) list(query, productID string) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.ProductID, &b.BatchNumber, &b.Stock, &b.ExpiryDate, &b.UnitCost, &b.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.Stock, &b.ExpiryDate, &b.UnitCost, &b.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// Create persiste un lote nuevo. No fusiona números duplicados: eso es
// trabajo de la reconciliación.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, product_id, batch_number, stock, expiry_date, unit_cost, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.BatchNumber, batch.Stock,
		batch.ExpiryDate, batch.UnitCost, batch.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// UpdateStock fija el stock del lote.
func (r *BatchRepo) UpdateStock(batchID string, stock int64) error {
	query := `UPDATE batches SET stock = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, batchID, stock)
	if err != nil {
		return fmt.Errorf("update batch stock: %w", err)
	}
	return nil
}

// Delete elimina un lote (cuando su stock llegó a cero por salida o fusión).
func (r *BatchRepo) Delete(batchID string) error {
	query := `DELETE FROM batches WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, batchID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}
