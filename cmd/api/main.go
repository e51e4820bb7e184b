package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/auth"
	"github.com/bellezapp/backend/internal/application/cash"
	"github.com/bellezapp/backend/internal/application/refund"
	"github.com/bellezapp/backend/internal/application/report"
	"github.com/bellezapp/backend/internal/application/returns"
	infracache "github.com/bellezapp/backend/internal/infrastructure/cache"
	infraexport "github.com/bellezapp/backend/internal/infrastructure/export"
	infrapdf "github.com/bellezapp/backend/internal/infrastructure/pdf"
	"github.com/bellezapp/backend/internal/infrastructure/postgres"
	httpRouter "github.com/bellezapp/backend/internal/interfaces/http"
	"github.com/bellezapp/backend/pkg/config"
	"github.com/bellezapp/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios de solo lectura sobre el pool; las escrituras van por TxRunner.
	orderRepo := postgres.NewOrderRepository(pool)
	returnRepo := postgres.NewReturnRequestRepository(pool)
	refundRepo := postgres.NewRefundTransactionRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	movementRepo := postgres.NewCashMovementRepository(pool)
	finRepo := postgres.NewFinancialTransactionRepository(pool)
	reconRepo := postgres.NewReconciliationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditor := audit.NewLogger(auditRepo, userRepo)
	processor := refund.NewProcessor(cfg.App.Currency)

	returnsUC := returns.NewUseCase(txRunner, orderRepo, returnRepo, processor, auditor, log, cfg.App.Currency)
	cashUC := cash.NewUseCase(txRunner, registerRepo, movementRepo, auditor, log)
	authUC := auth.NewUseCase(userRepo, auditRepo, auditor, log, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	// Caché de reconciliación: Redis si está configurado, si no un no-op.
	var reportCache report.Cache = infracache.NewNoopCache()
	if cfg.Redis.Addr != "" {
		redisCache := infracache.NewRedisReportCache(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSecs)*time.Second,
		)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, reportes sin caché")
		} else {
			defer redisCache.Close()
			reportCache = redisCache
		}
	}

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	xmlExporter := infraexport.NewXMLExporter()
	reportSvc := report.NewService(
		reconRepo, returnRepo, refundRepo, auditRepo, movementRepo, finRepo,
		auditor, pdfGenerator, xmlExporter, reportCache, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BellezApp API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReturnsUC:   returnsUC,
		CashUC:      cashUC,
		AuthUC:      authUC,
		AuditLogger: auditor,
		Reports:     reportSvc,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
