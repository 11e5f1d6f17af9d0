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

// SetupRetailUseCase convierte un producto a granel ("padre") en una
// presentación al detal: crea el producto hijo y enlaza al padre con la tasa
// de conversión (cuántas unidades al detal rinde una unidad padre).
type SetupRetailUseCase struct {
	txRunner TxRunner
}

// NewSetupRetailUseCase construye el caso de uso.
func NewSetupRetailUseCase(txRunner TxRunner) *SetupRetailUseCase {
	return &SetupRetailUseCase{txRunner: txRunner}
}

// SetupRetailInput entrada para crear la presentación al detal.
type SetupRetailInput struct {
	ParentID    string
	Rate        int64 // unidades al detal por unidad padre
	RetailUnit  string
	RetailPrice decimal.Decimal
}

// SetupRetailResult IDs del enlace padre -> detal creado.
type SetupRetailResult struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
}

// SetupRetail crea el producto al detal con stock cero (el stock debe fluir
// después por recepciones y salidas como en cualquier producto) y costo
// derivado padre.Cost / tasa si el padre tiene costo; luego enlaza el padre.
//
// Un padre solo puede tener una presentación al detal: si ya está enlazado
// retorna ErrAlreadyLinked sin crear un segundo hijo.
//
// El enlace es metadata de costo y reportes: no traslada stock del padre al
// hijo automáticamente; ese traslado, si se quiere, es un flujo de la
// aplicación (salida del padre + recepción del hijo).
func (uc *SetupRetailUseCase) SetupRetail(ctx context.Context, in SetupRetailInput) (SetupRetailResult, error) {
	if in.ParentID == "" || in.Rate <= 0 || in.RetailUnit == "" || in.RetailPrice.IsNegative() {
		return SetupRetailResult{}, domain.ErrInvalidInput
	}

	childID := uuid.New().String()
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
		_ repository.AdjustmentRepository,
	) error {
		parent, err := productRepo.GetForUpdate(in.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		if parent.HasRetail() {
			return domain.ErrAlreadyLinked
		}

		cost := decimal.Zero
		if parent.Cost.IsPositive() {
			cost = parent.Cost.Div(decimal.NewFromInt(in.Rate))
		}
		now := time.Now()
		child := &entity.Product{
			ID:        childID,
			StoreID:   parent.StoreID,
			SKU:       parent.SKU + "-DETAL",
			Name:      parent.Name + " (detal)",
			Unit:      in.RetailUnit,
			Stock:     0,
			Cost:      cost,
			Price:     in.RetailPrice,
			ParentID:  &in.ParentID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := productRepo.Create(child); err != nil {
			return err
		}
		return productRepo.SetRetail(parent.ID, child.ID, in.Rate)
	})
	if err != nil {
		return SetupRetailResult{}, err
	}
	return SetupRetailResult{ParentID: in.ParentID, ChildID: childID}, nil
}
