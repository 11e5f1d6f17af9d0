package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// AdjustUseCase aplica y audita un cambio de stock que no es venta (merma,
// daño, vencimiento, corrección manual), con valoración monetaria.
type AdjustUseCase struct {
	txRunner TxRunner
	notifier StockNotifier
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, notifier StockNotifier) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, notifier: notifier}
}

// AdjustInput entrada para registrar un ajuste.
// Quantity con signo: negativo = pérdida, positivo = corrección a favor.
type AdjustInput struct {
	ProductID string
	BatchID   *string
	Quantity  int64
	Kind      entity.AdjustmentKind
	Reason    string
	ActorID   string
}

// Adjust crea el registro inmutable de ajuste con su valoración y aplica el
// delta al lote (si se indicó) y al agregado del producto, atómicamente.
//
// Costo unitario para la valoración: el del lote si existe y lo tiene, si no
// el costo por defecto del producto, si no cero.
// TotalValue = Quantity * UnitCost (el signo se conserva: pérdidas negativas).
//
// Si el stock del lote o del producto quedaría negativo, falla con
// ErrInsufficientStock sin efecto parcial. La notificación posterior es
// fire-and-forget: su falla nunca revierte el ajuste.
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.Adjustment, error) {
	if in.ProductID == "" || in.Quantity == 0 || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Kind.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	var adjustment *entity.Adjustment
	var storeID string
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		storeID = product.StoreID

		unitCost := product.Cost
		var batch *entity.Batch
		if in.BatchID != nil && *in.BatchID != "" {
			batch, err = batchRepo.GetByID(*in.BatchID)
			if err != nil {
				return err
			}
			if batch == nil || batch.ProductID != in.ProductID {
				return domain.ErrNotFound
			}
			if batch.Stock+in.Quantity < 0 {
				return domain.ErrInsufficientStock
			}
			if batch.UnitCost != nil {
				unitCost = *batch.UnitCost
			}
		}
		if product.Stock+in.Quantity < 0 {
			return domain.ErrInsufficientStock
		}

		adjustment = &entity.Adjustment{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			BatchID:    in.BatchID,
			Quantity:   in.Quantity,
			Kind:       in.Kind,
			Reason:     in.Reason,
			UnitCost:   unitCost,
			TotalValue: decimal.NewFromInt(in.Quantity).Mul(unitCost),
			CreatedBy:  in.ActorID,
			CreatedAt:  time.Now(),
		}
		if err := adjRepo.Create(adjustment); err != nil {
			return err
		}
		if batch != nil {
			if err := batchRepo.UpdateStock(batch.ID, batch.Stock+in.Quantity); err != nil {
				return err
			}
		}
		return productRepo.UpdateStock(in.ProductID, product.Stock+in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.StockChanged(storeID)
	return adjustment, nil
}

const historyDefaultLimit = 50

// History lista el rastro de auditoría de un producto, del más reciente al más
// antiguo, con filtro opcional de fechas. limit <= 0 usa el valor por defecto.
func (uc *AdjustUseCase) History(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	var adjustments []*entity.Adjustment
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.BatchRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		var err error
		adjustments, err = adjRepo.ListByProduct(productID, from, to, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Get obtiene un ajuste por ID.
func (uc *AdjustUseCase) Get(ctx context.Context, adjustmentID string) (*entity.Adjustment, error) {
	if adjustmentID == "" {
		return nil, domain.ErrInvalidInput
	}

	var adjustment *entity.Adjustment
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		_ repository.BatchRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		var err error
		adjustment, err = adjRepo.GetByID(adjustmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if adjustment == nil {
		return nil, domain.ErrNotFound
	}
	return adjustment, nil
}
