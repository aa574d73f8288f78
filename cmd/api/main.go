package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Estore-api/internal/application/analytics"
	"github.com/jhoicas/Estore-api/internal/application/auth"
	"github.com/jhoicas/Estore-api/internal/application/checkout"
	"github.com/jhoicas/Estore-api/internal/application/usecase"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/internal/infrastructure/billboard"
	"github.com/jhoicas/Estore-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Estore-api/internal/infrastructure/payment"
	infrapdf "github.com/jhoicas/Estore-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Estore-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Estore-api/internal/infrastructure/redis"
	"github.com/jhoicas/Estore-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Estore-api/internal/interfaces/http"
	"github.com/jhoicas/Estore-api/pkg/config"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	countryRepo := postgres.NewCountryRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	muRepo := postgres.NewMeasureUnitsRepository(pool)
	attributeRepo := postgres.NewAttributeRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	cartStore := infraredis.NewCartStore(redisClient, time.Duration(cfg.Redis.CartTTLHours)*time.Hour)

	company := entity.CompanyInfo(cfg.Company)
	m := metrics.New()
	hub := billboard.NewHub(log)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryUC, muRepo, cfg.Store.TopProductsLength).WithTx(txRunner)
	userUC := usecase.NewUserUseCase(userRepo, roleRepo, countryRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, userRepo, infrapdf.NewMarotoPDFGenerator(cfg.Store.CurrencySymbol), company)
	checkoutUC := checkout.NewCheckoutUseCase(
		txRunner, cartStore, reservationRepo, userRepo,
		payment.NewCardGateway(log), hub, productUC,
		checkout.Config{ReserveFor: time.Duration(cfg.Store.ProductReserveSeconds) * time.Second},
		log,
	)
	authUC := auth.NewAuthUseCase(userRepo, roleRepo, countryRepo, auth.JWTConfig{
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
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "eStore API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		CompanyUC:          usecase.NewCompanyUseCase(company),
		CategoryUC:         categoryUC,
		MeasureUnitsUC:     usecase.NewMeasureUnitsUseCase(muRepo, productRepo),
		ProductUC:          productUC,
		AttributeUC:        usecase.NewAttributeUseCase(attributeRepo, productRepo, categoryUC),
		PriceListUC:        usecase.NewPriceListUseCase(productUC, txRunner, log),
		UserUC:             userUC,
		OrderUC:            orderUC,
		CartUC:             checkout.NewCartUseCase(cartStore, productRepo, orderRepo, reservationRepo),
		CheckoutUC:         checkoutUC,
		ReportUC:           appanalytics.NewReportUseCase(orderRepo, productUC, userUC),
		Orders:             m,
		JWTSecret:          cfg.JWT.Secret,
		LoginRatePerMinute: cfg.HTTP.LoginRatePerMinute,
	})

	// Billboard: websocket aparte del API
	billboardSrv := &http.Server{
		Addr:              cfg.Billboard.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	jobs, err := scheduler.New(scheduler.Config{
		ReservationSweep: cfg.Store.ReservationSweep,
		BillboardRefresh: cfg.Billboard.Refresh,
		Timeout:          30 * time.Second,
	}, checkoutUC, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de tareas programadas")
	}
	jobs.Start()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Billboard.Addr).Msg("billboard escuchando")
		if err := billboardSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor billboard finalizado")
		}
	}()
	// ranking inicial para los primeros clientes del billboard
	if err := checkoutUC.PublishTop(ctx); err != nil {
		log.Warn().Err(err).Msg("publicación inicial del billboard")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de tareas programadas")
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := billboardSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del billboard")
	}
	hub.Close()

	log.Info().Msg("aplicación detenida")
}
