package main

import (
	"context"
	"flag"

	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/postgres"
	"github.com/tu-usuario/tienda-pos/pkg/config"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

// Escaneo de reconciliación por línea de comandos: recorre el catálogo y
// repara duplicados de lote y desfases agregado/lotes, producto por producto.
// Pensado para correr bajo cron o a demanda; es seguro repetirlo y correrlo
// en paralelo con el tráfico normal.
func main() {
	storeID := flag.String("store", "", "limitar el escaneo a una tienda (vacío = todas)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	reconcileUC := ledger.NewReconcileUseCase(txRunner, log)

	summary, err := reconcileUC.ReconcileAll(ctx, productRepo, *storeID)
	if err != nil {
		log.Fatal().Err(err).Msg("escaneo de reconciliación")
	}
	log.Info().
		Int("scanned", summary.Scanned).
		Int("repaired", summary.Repaired).
		Int("failed", summary.Failed).
		Msg("reconciliación terminada")
}
