package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/tienda-pos/internal/application/auth"
	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/internal/application/usecase"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/notify"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-pos/internal/interfaces/http"
	"github.com/tu-usuario/tienda-pos/pkg/config"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificador asíncrono de cambios de stock (fire-and-forget).
	notifier := notify.NewDispatcher(log, notify.LowStockHook(productRepo, log))
	defer notifier.Close()

	receiveUC := ledger.NewReceiveUseCase(txRunner, notifier)
	deductUC := ledger.NewDeductUseCase(txRunner, notifier)
	adjustUC := ledger.NewAdjustUseCase(txRunner, notifier)
	reconcileUC := ledger.NewReconcileUseCase(txRunner, log)
	setupRetailUC := ledger.NewSetupRetailUseCase(txRunner)
	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		Receive:     receiveUC,
		Deduct:      deductUC,
		Adjust:      adjustUC,
		Reconcile:   reconcileUC,
		SetupRetail: setupRetailUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Apagado controlado: SIGINT/SIGTERM -> shutdown del server y drenado del notificador.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.Shutdown()
	}()

	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
	log.Info().Msg("servidor detenido")
}
