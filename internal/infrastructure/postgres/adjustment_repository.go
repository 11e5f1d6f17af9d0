package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

const adjustmentColumns = `id, product_id, batch_id, quantity, kind, reason, unit_cost, total_value, created_by, created_at`

// AdjustmentRepo implementación del puerto AdjustmentRepository sobre PostgreSQL.
// Solo INSERT y SELECT: los ajustes son el rastro de auditoría y nunca se
// actualizan ni se borran.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador de ajustes. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el registro inmutable de ajuste.
func (r *AdjustmentRepo) Create(adj *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (id, product_id, batch_id, quantity, kind, reason, unit_cost, total_value, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		adj.ID, adj.ProductID, adj.BatchID, adj.Quantity, adj.Kind.String(),
		adj.Reason, adj.UnitCost, adj.TotalValue, adj.CreatedBy, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1`
	var a entity.Adjustment
	var kind string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ProductID, &a.BatchID, &a.Quantity, &kind, &a.Reason,
		&a.UnitCost, &a.TotalValue, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	a.Kind = entity.AdjustmentKind(kind)
	return &a, nil
}

// ListByProduct lista los ajustes de un producto, opcionalmente filtrados por fecha.
func (r *AdjustmentRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM adjustments
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		var kind string
		if err := rows.Scan(
			&a.ID, &a.ProductID, &a.BatchID, &a.Quantity, &kind, &a.Reason,
			&a.UnitCost, &a.TotalValue, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		a.Kind = entity.AdjustmentKind(kind)
		adjustments = append(adjustments, &a)
	}
	return adjustments, rows.Err()
}
