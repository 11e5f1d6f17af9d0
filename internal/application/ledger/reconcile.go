package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

// ReconcileUseCase es el trabajo idempotente de reparación del libro de
// inventario: fusiona lotes con número duplicado y resincroniza el agregado
// del producto contra la suma real de sus lotes.
//
// Cada producto se repara en su propia transacción, así el escaneo completo
// puede correr en paralelo con el tráfico normal: una venta que se cruce con
// la pasada puede dejar un snapshot viejo, pero como las reparaciones son
// idempotentes y el trabajo se repite, converge con el tiempo.
type ReconcileUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner, log: log}
}

// ReconcileResult resumen de la reparación de un producto.
type ReconcileResult struct {
	ProductID     string `json:"product_id"`
	AlreadyInSync bool   `json:"already_in_sync"`
	PreviousStock int64  `json:"previous_stock"` // suma de lotes antes de reparar
	NewStock      int64  `json:"new_stock"`      // agregado del producto (la verdad)
	MergedBatches int    `json:"merged_batches"` // lotes duplicados absorbidos
}

// ReconcileProduct repara un producto en una transacción:
//
//  1. Agrupa sus lotes por número; en cada grupo con más de un miembro conserva
//     el lote recibido primero, le suma el stock de los demás y los elimina.
//     Re-ejecutar sobre un conjunto ya fusionado es no-op.
//  2. Recalcula la suma de stock de los lotes y la compara con el agregado:
//     - lotes > agregado: recorta la diferencia empezando por los lotes de
//     vencimiento más lejano (protege el stock próximo a vencer de quedar
//     en cero silenciosamente); elimina lotes que lleguen a cero.
//     - lotes < agregado: crea un único lote de corrección sin vencimiento
//     con el faltante, en vez de inventar metadata de vencimiento.
//  3. Si ya coinciden, no hace nada.
//
// Productos sin ningún lote no se tocan: ahí el agregado es la única fuente
// de verdad y no hay nada que reconciliar.
func (uc *ReconcileUseCase) ReconcileProduct(ctx context.Context, productID string) (ReconcileResult, error) {
	if productID == "" {
		return ReconcileResult{}, domain.ErrInvalidInput
	}

	result := ReconcileResult{ProductID: productID}
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		_ repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		batches, err := batchRepo.ListByProduct(productID)
		if err != nil {
			return err
		}
		result.NewStock = product.Stock
		if len(batches) == 0 {
			result.PreviousStock = product.Stock
			result.AlreadyInSync = true
			return nil
		}
		result.PreviousStock = inventory.SumStock(batches)

		// Paso 1: fusionar números de lote duplicados.
		batches, result.MergedBatches, err = uc.mergeDuplicates(batchRepo, batches)
		if err != nil {
			return err
		}

		// Paso 2: resincronizar agregado vs suma de lotes.
		total := inventory.SumStock(batches)
		switch {
		case total == product.Stock:
			result.AlreadyInSync = result.MergedBatches == 0
			return nil
		case total > product.Stock:
			return uc.trimExcess(batchRepo, batches, total-product.Stock)
		default:
			return uc.createCorrectionBatch(batchRepo, product, product.Stock-total)
		}
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	return result, nil
}

// mergeDuplicates conserva por cada número de lote el recibido primero, le suma
// el stock del resto del grupo y elimina los absorbidos. Devuelve el conjunto
// resultante y cuántos lotes se absorbieron.
func (uc *ReconcileUseCase) mergeDuplicates(batchRepo repository.BatchRepository, batches []*entity.Batch) ([]*entity.Batch, int, error) {
	byNumber := make(map[string][]*entity.Batch)
	order := make([]string, 0, len(batches))
	for _, b := range batches {
		if _, seen := byNumber[b.BatchNumber]; !seen {
			order = append(order, b.BatchNumber)
		}
		byNumber[b.BatchNumber] = append(byNumber[b.BatchNumber], b)
	}

	merged := 0
	kept := make([]*entity.Batch, 0, len(byNumber))
	for _, number := range order {
		group := byNumber[number]
		if len(group) == 1 {
			kept = append(kept, group[0])
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ReceivedAt.Before(group[j].ReceivedAt)
		})
		survivor := group[0]
		for _, dup := range group[1:] {
			survivor.Stock += dup.Stock
			if err := batchRepo.Delete(dup.ID); err != nil {
				return nil, 0, err
			}
			merged++
		}
		if err := batchRepo.UpdateStock(survivor.ID, survivor.Stock); err != nil {
			return nil, 0, err
		}
		kept = append(kept, survivor)
	}
	return kept, merged, nil
}

// trimExcess recorta excess unidades de los lotes empezando por el vencimiento
// más lejano (los sin vencimiento primero), eliminando lotes que queden en cero.
func (uc *ReconcileUseCase) trimExcess(batchRepo repository.BatchRepository, batches []*entity.Batch, excess int64) error {
	ordered := inventory.SortFEFO(batches)
	for i := len(ordered) - 1; i >= 0 && excess > 0; i-- {
		b := ordered[i]
		if b.Stock <= 0 {
			continue
		}
		take := b.Stock
		if take > excess {
			take = excess
		}
		newStock := b.Stock - take
		excess -= take
		if newStock == 0 {
			if err := batchRepo.Delete(b.ID); err != nil {
				return err
			}
			continue
		}
		if err := batchRepo.UpdateStock(b.ID, newStock); err != nil {
			return err
		}
	}
	return nil
}

// createCorrectionBatch crea un único lote de corrección sin vencimiento que
// cubre el faltante entre lotes y agregado.
func (uc *ReconcileUseCase) createCorrectionBatch(batchRepo repository.BatchRepository, product *entity.Product, shortfall int64) error {
	cost := product.Cost
	return batchRepo.Create(&entity.Batch{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		BatchNumber: entity.BatchNumberCorrection,
		Stock:       shortfall,
		UnitCost:    &cost,
		ReceivedAt:  time.Now(),
	})
}

// ScanSummary resumen de una pasada completa de reconciliación.
type ScanSummary struct {
	Scanned  int
	Repaired int
	Failed   int
}

// ReconcileAll recorre todos los productos (de una tienda, o de todas si
// storeID es vacío) y repara cada uno en su propia transacción. Una falla en
// un producto se registra en log y el escaneo continúa: un producto corrupto
// no bloquea la reparación del resto del catálogo.
func (uc *ReconcileUseCase) ReconcileAll(ctx context.Context, productRepo repository.ProductRepository, storeID string) (ScanSummary, error) {
	ids, err := productRepo.ListIDs(storeID)
	if err != nil {
		return ScanSummary{}, err
	}

	var summary ScanSummary
	for _, id := range ids {
		summary.Scanned++
		res, err := uc.ReconcileProduct(ctx, id)
		if err != nil {
			summary.Failed++
			uc.log.Error().Err(err).Str("product_id", id).Msg("reconciliación de producto falló")
			continue
		}
		if !res.AlreadyInSync {
			summary.Repaired++
			uc.log.Info().
				Str("product_id", id).
				Int64("previous_stock", res.PreviousStock).
				Int64("new_stock", res.NewStock).
				Int("merged_batches", res.MergedBatches).
				Msg("producto reconciliado")
		}
	}
	return summary, nil
}
