package notify

import (
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

// LowStockHook devuelve un hook que tras cada cambio de stock revisa qué
// productos de la tienda quedaron en o bajo su umbral y los registra en log.
// Es el punto donde se conectaría el transporte real de alertas (correo,
// WhatsApp, etc.), que está fuera del núcleo.
func LowStockHook(productRepo repository.ProductRepository, log *logger.Logger) Hook {
	return func(storeID string) error {
		products, err := productRepo.ListBelowThreshold(storeID)
		if err != nil {
			return err
		}
		for _, p := range products {
			log.Warn().
				Str("store_id", storeID).
				Str("product_id", p.ID).
				Str("sku", p.SKU).
				Int64("stock", p.Stock).
				Int64("threshold", *p.LowStock).
				Msg("producto con stock bajo")
		}
		return nil
	}
}
