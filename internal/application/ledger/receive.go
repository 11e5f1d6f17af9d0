package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/inventory"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// ReceiveUseCase registra entradas de mercancía: crea el lote y suma al
// agregado del producto en la misma transacción.
type ReceiveUseCase struct {
	txRunner TxRunner
	notifier StockNotifier
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(txRunner TxRunner, notifier StockNotifier) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, notifier: notifier}
}

// ReceiveInput entrada para registrar una recepción de mercancía.
// ExpiryDate, BatchNumber y UnitCost son opcionales (metadata del lote).
type ReceiveInput struct {
	ProductID   string
	Quantity    int64
	ExpiryDate  *time.Time
	BatchNumber string
	UnitCost    *decimal.Decimal
}

// Receive crea un lote nuevo con la metadata recibida y suma Quantity al
// agregado del producto, todo en una transacción con la fila del producto
// bloqueada (SELECT FOR UPDATE).
//
// Siempre crea un lote nuevo, incluso si ya existe uno con el mismo número:
// dos recepciones con el mismo número en fechas distintas son lotes físicos
// distintos; fusionarlos al escribir ocultaría el error. Los duplicados los
// repara después la reconciliación.
//
// Si se recibe UnitCost, el costo por defecto del producto se recalcula como
// promedio ponderado (el lote conserva su costo propio para valoración FEFO).
func (uc *ReceiveUseCase) Receive(ctx context.Context, in ReceiveInput) (string, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return "", domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return "", domain.ErrInvalidInput
	}

	batchID := uuid.New().String()
	var storeID string
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		_ repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		storeID = product.StoreID

		now := time.Now()
		batchNumber := in.BatchNumber
		if batchNumber == "" {
			batchNumber = entity.BatchNumberGeneric
		}
		batch := &entity.Batch{
			ID:          batchID,
			ProductID:   product.ID,
			BatchNumber: batchNumber,
			Stock:       in.Quantity,
			ExpiryDate:  in.ExpiryDate,
			UnitCost:    in.UnitCost,
			ReceivedAt:  now,
		}
		if err := batchRepo.Create(batch); err != nil {
			return err
		}

		if in.UnitCost != nil {
			newCost := inventory.CostCalculator(product.Stock, product.Cost, in.Quantity, *in.UnitCost)
			if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
				return err
			}
		}
		return productRepo.UpdateStock(product.ID, product.Stock+in.Quantity)
	})
	if err != nil {
		return "", err
	}
	uc.notifier.StockChanged(storeID)
	return batchID, nil
}

// ReceiveGeneric registra una entrada sin metadata de lote (ej. corrección por
// conteo físico que aumenta stock): crea un lote genérico sin vencimiento con
// el costo por defecto del producto.
func (uc *ReceiveUseCase) ReceiveGeneric(ctx context.Context, productID string, quantity int64) (string, error) {
	if productID == "" || quantity <= 0 {
		return "", domain.ErrInvalidInput
	}

	batchID := uuid.New().String()
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

		cost := product.Cost
		batch := &entity.Batch{
			ID:          batchID,
			ProductID:   product.ID,
			BatchNumber: entity.BatchNumberGeneric,
			Stock:       quantity,
			UnitCost:    &cost,
			ReceivedAt:  time.Now(),
		}
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return productRepo.UpdateStock(product.ID, product.Stock+quantity)
	})
	if err != nil {
		return "", err
	}
	uc.notifier.StockChanged(storeID)
	return batchID, nil
}
