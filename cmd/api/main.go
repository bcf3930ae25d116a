package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"memoapi/docs"
	"memoapi/internal/config"
	"memoapi/internal/database"
	"memoapi/internal/database/migration"
	handlers "memoapi/internal/http/handler"
	"memoapi/internal/http/middleware"
	"memoapi/internal/logging"
	"memoapi/internal/otel"
	"memoapi/internal/repository/postgres"
	"memoapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Memo API
// @version 1.0
// @description CRUD, partial update, completion toggle and paginated listing of memos.
// @BasePath /
func main() {
	// Configuration comes from the environment (.env auto-loaded if present).
	cfg := config.Load()
	log := logging.New(cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", slog.Any("error", err))
		}
	}()

	// PostgreSQL with pooling via database/sql; schema is brought up to date before serving.
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	memoRepo := postgres.NewMemoPostgres(db, clockwork.NewRealClock())
	memoSvc := service.NewMemoService(memoRepo)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:               "memoapi",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.MaxRequestSize,
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.CORS(cfg.CORS))
	app.Use(middleware.RateLimit(cfg.RateLimit))

	app.Get(middleware.MetricsPath, middleware.MetricsHandler(reg))

	if cfg.EnableSwagger {
		// Swagger UI with dynamic host and scheme
		app.Get("/swagger/*", func(c *fiber.Ctx) error {
			scheme := c.Protocol()
			if proto := c.Get("X-Forwarded-Proto"); proto != "" {
				scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
			}

			docs.SwaggerInfo.Host = c.Get("Host")
			docs.SwaggerInfo.Schemes = []string{scheme}

			return swagger.HandlerDefault(c)
		})
	}

	handlers.RegisterRoutes(app, db, memoSvc, log)

	serveErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("http_listening", slog.String("addr", addr), slog.String("env", string(cfg.Env)))
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("http_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
