package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/alnatural-api/internal/application/access"
	"github.com/jhoicas/alnatural-api/internal/application/auth"
	"github.com/jhoicas/alnatural-api/internal/application/catalog"
	"github.com/jhoicas/alnatural-api/internal/application/clients"
	"github.com/jhoicas/alnatural-api/internal/application/maintenance"
	"github.com/jhoicas/alnatural-api/internal/application/orders"
	"github.com/jhoicas/alnatural-api/internal/application/ports"
	"github.com/jhoicas/alnatural-api/internal/infrastructure/metrics"
	"github.com/jhoicas/alnatural-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/alnatural-api/internal/infrastructure/pdf"
	"github.com/jhoicas/alnatural-api/internal/infrastructure/postgres"
	"github.com/jhoicas/alnatural-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/alnatural-api/internal/interfaces/http"
	"github.com/jhoicas/alnatural-api/pkg/config"
	"github.com/jhoicas/alnatural-api/pkg/logger"
)

// Zona horaria de los comprobantes.
const receiptTimezone = "America/Caracas"

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

	if cfg.DB.AutoMigrate {
		migrationURL, err := postgres.MigrationURL(cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("URL de migraciones")
		}
		if err := postgres.Migrate(migrationURL, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	codeRepo := postgres.NewAccessCodeRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	linkRepo := postgres.NewUserClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New(true)

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	authUC := auth.NewAuthUseCase(userRepo, jwtCfg, cfg.Access.AdminRole)
	accessUC := access.NewAccessUseCase(codeRepo, clientRepo, linkRepo, userRepo, jwtCfg)
	catalogUC := catalog.NewCatalogUseCase(productRepo)

	// Integraciones opcionales: sin configuración quedan deshabilitadas.
	var (
		forwarder ports.OrderForwarder
		messenger ports.Messenger
		mailer    ports.Mailer
	)
	if cfg.Dashboard.Enabled() {
		forwarder = notify.NewDashboardClient(cfg.Dashboard.WebhookURL, cfg.Dashboard.APIKey, nil)
	} else {
		log.Warn().Msg("dashboard no configurado: los pedidos solo se guardan en base de datos")
	}
	if cfg.WhatsApp.Enabled() {
		messenger = notify.NewWhatsAppClient(cfg.WhatsApp.APIBase, cfg.WhatsApp.PhoneID, cfg.WhatsApp.Token, nil)
	}
	if cfg.Mail.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.FromName)
	}

	loc, err := time.LoadLocation(receiptTimezone)
	if err != nil {
		log.Warn().Err(err).Msg("zona horaria no disponible, se usa UTC")
		loc = time.UTC
	}
	// PDF: comprobante del pedido (adjunto de correo y descarga)
	receipts := infrapdf.NewReceiptGenerator(cfg.WhatsApp.CompanyNumber, loc)

	clientsUC := clients.NewClientsUseCase(txRunner, clientRepo, mailer, log.Component("clients"))
	ordersUC := orders.NewOrdersUseCase(orders.Deps{
		Tx:        txRunner,
		Orders:    orderRepo,
		Resolver:  accessUC,
		Forwarder: forwarder,
		Messenger: messenger,
		Mailer:    mailer,
		Receipts:  receipts,
		Observer:  m.ObserveNotification,
		Log:       log.Component("orders"),
	})

	accessRate := httpRouter.NewRateLimiter(cfg.Access.RatePerMinute)

	// Tareas programadas: barrido de códigos vencidos y limpieza del limitador.
	jobs := scheduler.New(log.Component("scheduler"), m.ObserveJob)
	if err := jobs.Add(cfg.Access.SweepSpec, maintenance.NewAccessCodeSweeper(codeRepo, log.Component("maintenance"))); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Access.SweepSpec).Msg("programar barrido de códigos")
	}
	if err := jobs.Add("@every 10m", limiterCleanup{accessRate}); err != nil {
		log.Fatal().Err(err).Msg("programar limpieza del limitador")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Al Natural API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		AccessUC:   accessUC,
		ClientsUC:  clientsUC,
		CatalogUC:  catalogUC,
		OrdersUC:   ordersUC,
		JWTSecret:  cfg.JWT.Secret,
		AccessRate: accessRate,
		Metrics:    m,
		Log:        log.Component("http"),
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
	jobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

// limiterCleanup libera los limitadores de IPs inactivas.
type limiterCleanup struct {
	rl *httpRouter.RateLimiter
}

func (limiterCleanup) Name() string { return "rate-limiter-cleanup" }

func (j limiterCleanup) Run(context.Context) (int64, error) {
	return int64(j.rl.Cleanup()), nil
}
