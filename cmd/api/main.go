package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/auth"
	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/internal/application/usecase"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	infraanalytics "github.com/tu-usuario/facturas-pro/internal/infrastructure/analytics"
	"github.com/tu-usuario/facturas-pro/internal/infrastructure/notify"
	"github.com/tu-usuario/facturas-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/facturas-pro/internal/interfaces/http"
	"github.com/tu-usuario/facturas-pro/pkg/config"
	"github.com/tu-usuario/facturas-pro/pkg/logger"
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

	grupoRepo := postgres.NewGrupoRepository(pool)
	responsableRepo := postgres.NewResponsableRepository(pool)
	asignacionRepo := postgres.NewAsignacionRepository(pool)
	facturaRepo := postgres.NewFacturaRepository(pool)
	pagoRepo := postgres.NewPagoRepository(pool)
	auditoriaRepo := postgres.NewAuditoriaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Notificador de devoluciones: SMTP si hay host configurado, si no solo log.
	var notificador ports.Notificador
	if cfg.SMTP.Host != "" {
		notificador = notify.NewSMTPNotificador(cfg.SMTP, log)
	} else {
		notificador = notify.NewLogNotificador(log)
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones de devolución solo se loguean")
	}

	analizador := infraanalytics.NewPatronHistorico(pool)

	resolver := asignacion.NewResolver(asignacionRepo, responsableRepo)
	clasificador := asignacion.NewClasificador(resolver, facturaRepo)
	engine := workflow.NewEngine(
		txRunner, facturaRepo, responsableRepo, grupoRepo, asignacionRepo,
		analizador, notificador, log,
		cfg.Workflow.ConfianzaMinimaAutoAprobacion,
	)
	ingresoUC := workflow.NewIngresoUseCase(grupoRepo, facturaRepo, clasificador, engine, log)

	grupoUC := usecase.NewGrupoUseCase(grupoRepo)
	responsableUC := usecase.NewResponsableUseCase(responsableRepo, grupoRepo)
	asignacionUC := asignacion.NewUseCase(asignacionRepo, responsableRepo, grupoRepo)
	authUC := auth.NewUseCase(responsableRepo, auth.JWTConfig{
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		GrupoUC:       grupoUC,
		ResponsableUC: responsableUC,
		AsignacionUC:  asignacionUC,
		Resolver:      resolver,
		Clasificador:  clasificador,
		Ingreso:       ingresoUC,
		Engine:        engine,
		Facturas:      facturaRepo,
		Pagos:         pagoRepo,
		Auditoria:     auditoriaRepo,
		Responsables:  responsableRepo,
		JWTSecret:     cfg.JWT.Secret,
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
