package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pos/internal/application/dto"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// ProductUseCase catálogo mínimo de productos. El stock del producto NO se
// toca por aquí: toda mutación de cantidad pasa por el libro de inventario
// (recepciones, salidas, ajustes, reconciliación).
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create da de alta un producto con stock cero.
func (uc *ProductUseCase) Create(storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if storeID == "" || in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		SKU:       in.SKU,
		Name:      in.Name,
		Unit:      in.Unit,
		Stock:     0,
		Cost:      in.Cost,
		Price:     in.Price,
		LowStock:  in.LowStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la tienda.
func (uc *ProductUseCase) GetByID(storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista los productos de la tienda.
func (uc *ProductUseCase) List(storeID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		StoreID:    p.StoreID,
		SKU:        p.SKU,
		Name:       p.Name,
		Unit:       p.Unit,
		Stock:      p.Stock,
		Cost:       p.Cost,
		Price:      p.Price,
		LowStock:   p.LowStock,
		RetailID:   p.RetailID,
		RetailRate: p.RetailRate,
		ParentID:   p.ParentID,
		CreatedAt:  p.CreatedAt,
	}
}
