package ledger

import (
	"context"

	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// DeductUseCase descuenta stock de un producto con política FEFO
// (primero-en-vencer, primero-en-salir). Es la ruta de toda salida por venta.
type DeductUseCase struct {
	txRunner TxRunner
	notifier StockNotifier
}

// NewDeductUseCase construye el caso de uso.
func NewDeductUseCase(txRunner TxRunner, notifier StockNotifier) *DeductUseCase {
	return &DeductUseCase{txRunner: txRunner, notifier: notifier}
}

// Deduct descuenta quantity unidades del producto recorriendo sus lotes en
// orden FEFO: de cada lote toma min(stock, pendiente); si un lote queda en
// cero se elimina. Si los lotes no alcanzan, retorna ErrInsufficientStock y la
// transacción se revierte completa (ninguna mutación parcial queda visible).
//
// Si el producto no tiene lotes, descuenta directo del agregado (productos
// legados sin lotes), con la misma verificación de stock.
//
// quantity == 0 es no-op exitoso; quantity < 0 es ErrInvalidInput.
// La fila del producto se bloquea primero (SELECT FOR UPDATE): dos salidas
// concurrentes del mismo producto se serializan y nunca pueden consumir dos
// veces el mismo stock de un lote.
func (uc *DeductUseCase) Deduct(ctx context.Context, productID string, quantity int64) error {
	if productID == "" || quantity < 0 {
		return domain.ErrInvalidInput
	}
	if quantity == 0 {
		return nil
	}

	var storeID string
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
		storeID = product.StoreID

		batches, err := batchRepo.ListActive(productID)
		if err != nil {
			return err
		}

		if len(batches) == 0 {
			// Producto legado sin lotes: el agregado es la única fuente de verdad.
			if product.Stock < quantity {
				return domain.ErrInsufficientStock
			}
			return productRepo.UpdateStock(productID, product.Stock-quantity)
		}

		plan := inventory.PlanDeduction(batches, quantity)
		if !plan.Fulfilled {
			return domain.ErrInsufficientStock
		}
		for _, d := range plan.Deductions {
			if d.NewStock == 0 {
				if err := batchRepo.Delete(d.Batch.ID); err != nil {
					return err
				}
				continue
			}
			if err := batchRepo.UpdateStock(d.Batch.ID, d.NewStock); err != nil {
				return err
			}
		}
		newStock := product.Stock - quantity
		if newStock < 0 {
			// El agregado venía desincronizado por debajo de los lotes; la
			// reconciliación lo repara, pero nunca se persiste un negativo.
			return domain.ErrInsufficientStock
		}
		return productRepo.UpdateStock(productID, newStock)
	})
	if err != nil {
		return err
	}
	uc.notifier.StockChanged(storeID)
	return nil
}
