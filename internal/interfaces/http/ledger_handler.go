package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
)

// LedgerHandler expone las operaciones del libro de inventario:
// recepciones, salidas FEFO, ajustes, reconciliación y conversión al detal.
type LedgerHandler struct {
	receive     *ledger.ReceiveUseCase
	deduct      *ledger.DeductUseCase
	adjust      *ledger.AdjustUseCase
	reconcile   *ledger.ReconcileUseCase
	setupRetail *ledger.SetupRetailUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	receive *ledger.ReceiveUseCase,
	deduct *ledger.DeductUseCase,
	adjust *ledger.AdjustUseCase,
	reconcile *ledger.ReconcileUseCase,
	setupRetail *ledger.SetupRetailUseCase,
) *LedgerHandler {
	return &LedgerHandler{
		receive:     receive,
		deduct:      deduct,
		adjust:      adjust,
		reconcile:   reconcile,
		setupRetail: setupRetail,
	}
}

// ledgerError traduce errores de dominio a respuestas HTTP.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o lote no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "no hay stock suficiente para completar esta acción"})
	case errors.Is(err, domain.ErrAlreadyLinked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_LINKED", Message: "el producto ya tiene presentación al detal"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Receive registra una entrada de mercancía (crea un lote).
// POST /api/inventory/receipts
func (h *LedgerHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if in.Generic {
		batchID, err := h.receive.ReceiveGeneric(c.Context(), in.ProductID, in.Quantity)
		if err != nil {
			return ledgerError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"batch_id": batchID})
	}

	var expiry *time.Time
	if in.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", in.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_date debe ser YYYY-MM-DD"})
		}
		expiry = &t
	}
	batchID, err := h.receive.Receive(c.Context(), ledger.ReceiveInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		ExpiryDate:  expiry,
		BatchNumber: in.BatchNumber,
		UnitCost:    in.UnitCost,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"batch_id": batchID})
}

// Deduct descuenta stock con política FEFO.
// POST /api/inventory/deductions
func (h *LedgerHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.deduct.Deduct(c.Context(), in.ProductID, in.Quantity); err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"message": "salida registrada"})
}

// Adjust registra un ajuste de inventario con valoración.
// POST /api/inventory/adjustments
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adj, err := h.adjust.Adjust(c.Context(), ledger.AdjustInput{
		ProductID: in.ProductID,
		BatchID:   in.BatchID,
		Quantity:  in.Quantity,
		Kind:      entity.AdjustmentKind(in.Kind),
		Reason:    in.Reason,
		ActorID:   userID,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustResponse{
		AdjustmentID: adj.ID,
		TotalValue:   adj.TotalValue,
	})
}

// ListAdjustments lista el rastro de auditoría de un producto.
// GET /api/products/:id/adjustments?from=YYYY-MM-DD&to=YYYY-MM-DD&limit=&offset=
func (h *LedgerHandler) ListAdjustments(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
		}
		// Inclusivo: el filtro cubre el día completo.
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	adjustments, err := h.adjust.History(c.Context(), c.Params("id"), from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(fiber.Map{"adjustments": adjustments})
}

// GetAdjustment obtiene un ajuste por ID.
// GET /api/inventory/adjustments/:id
func (h *LedgerHandler) GetAdjustment(c *fiber.Ctx) error {
	adj, err := h.adjust.Get(c.Context(), c.Params("id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(adj)
}

// ReconcileProduct repara un producto (fusión de duplicados + resincronización).
// POST /api/inventory/reconcile/:productId
func (h *LedgerHandler) ReconcileProduct(c *fiber.Ctx) error {
	result, err := h.reconcile.ReconcileProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(result)
}

// SetupRetail crea la presentación al detal de un producto padre.
// POST /api/products/:id/retail
func (h *LedgerHandler) SetupRetail(c *fiber.Ctx) error {
	var in dto.SetupRetailRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.setupRetail.SetupRetail(c.Context(), ledger.SetupRetailInput{
		ParentID:    c.Params("id"),
		Rate:        in.ConversionRate,
		RetailUnit:  in.RetailUnit,
		RetailPrice: in.RetailPrice,
	})
	if err != nil {
		return ledgerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
