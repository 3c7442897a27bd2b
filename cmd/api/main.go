package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"nexuspro/internal/auth"
	"nexuspro/internal/config"
	"nexuspro/internal/database"
	"nexuspro/internal/database/migration"
	handlers "nexuspro/internal/http/handler"
	"nexuspro/internal/http/middleware"
	"nexuspro/internal/logger"
	"nexuspro/internal/mail"
	tracing "nexuspro/internal/otel"
	"nexuspro/internal/realtime"
	"nexuspro/internal/repository/postgres"
	"nexuspro/internal/service"
	"nexuspro/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// @title						Nexus Pro API
// @version					1.0
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Location())
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config_invalid", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database, log)
	if err != nil {
		log.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("db_migration_failed", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.Fatal("storage_init_failed", zap.Error(err))
	}

	mailer, err := mail.New(cfg.Mail, cfg.FrontendURL, cfg.Auth.TokenTTL, log)
	if err != nil {
		log.Fatal("mail_init_failed", zap.Error(err))
	}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	if err != nil {
		log.Fatal("jwt_init_failed", zap.Error(err))
	}

	users := postgres.NewUserPostgres(db)
	tokens := postgres.NewTokenPostgres(db)
	projects := postgres.NewProjectPostgres(db)
	tasks := postgres.NewTaskPostgres(db)
	notes := postgres.NewNotePostgres(db)
	attachments := postgres.NewAttachmentPostgres(db)

	// Board events are only published when the realtime server runs.
	var hub *realtime.Hub
	var pub service.EventPublisher
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(log)
		pub = hub
	}

	authSvc := service.NewAuthService(users, tokens, jwtManager, mailer, cfg.Auth.TokenTTL, log)
	projectSvc := service.NewProjectService(projects, tasks, attachments, objStore, pub, log)
	svcs := handlers.Services{
		Auth:        authSvc,
		Projects:    projectSvc,
		Tasks:       service.NewTaskService(tasks, notes, attachments, objStore, pub, log),
		Team:        service.NewTeamService(users, projects, pub, log),
		Notes:       service.NewNoteService(notes, pub),
		Attachments: service.NewAttachmentService(objStore, attachments, cfg.MinIO.PresignExpiry, pub, log),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(middleware.CORS(cfg.FrontendURL))

	handlers.RegisterRoutes(app, db, svcs, reg)

	var wg sync.WaitGroup

	janitor := service.NewTokenJanitor(tokens, cfg.Auth.TokenCleanupInterval, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Run(ctx)
	}()

	var rtServer *http.Server
	if hub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(ctx)
		}()

		rtHandler := realtime.NewHandler(hub, authSvc, projectSvc, cfg.FrontendURL, log)
		rtServer = realtime.NewServer(":"+cfg.Realtime.Port, rtHandler)
		go func() {
			log.Info("realtime_server_started", zap.String("addr", rtServer.Addr))
			if err := rtServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("realtime_server_failed", zap.Error(err))
				stop()
			}
		}()
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info("http_server_started", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Error("http_server_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown_started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("http_shutdown_failed", zap.Error(err))
	}
	if rtServer != nil {
		if err := rtServer.Shutdown(shutdownCtx); err != nil {
			log.Error("realtime_shutdown_failed", zap.Error(err))
		}
	}
	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", zap.Error(err))
	}
	log.Info("shutdown_complete")
}
