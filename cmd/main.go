package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/dtroode/accountd/internal/api/http/handler"
	"github.com/dtroode/accountd/internal/api/http/router"
	httpServer "github.com/dtroode/accountd/internal/api/http/server"
	"github.com/dtroode/accountd/internal/background"
	"github.com/dtroode/accountd/internal/binding"
	"github.com/dtroode/accountd/internal/config"
	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
	"github.com/dtroode/accountd/internal/notify"
	"github.com/dtroode/accountd/internal/password"
	"github.com/dtroode/accountd/internal/repository/memory"
	"github.com/dtroode/accountd/internal/repository/postgres"
	"github.com/dtroode/accountd/internal/server"
	"github.com/dtroode/accountd/internal/service"
	"github.com/dtroode/accountd/internal/session"
	storage "github.com/dtroode/accountd/internal/storage/minio"
	"github.com/dtroode/accountd/internal/validation"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	registry := session.NewRegistry()
	registry.Register(model.ManagerMemory, memory.NewSessionManager(memory.NewStore()))

	if cfg.Database.Manager == model.ManagerPostgres {
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		defer db.Close()

		registry.Register(model.ManagerPostgres, postgres.NewSessionManager(db))
	}

	if !slices.Contains(registry.Types(), cfg.Database.Manager) {
		logger.Fatal("unknown default manager type", "manager", cfg.Database.Manager, "registered", registry.Types())
	}
	sessions := session.NewProvider(registry, cfg.Database.Manager)
	hasher := password.NewHasher(password.Params{
		Time:      cfg.KDF.Time,
		MemKiB:    cfg.KDF.MemKiB,
		Par:       cfg.KDF.Par,
		SaltBytes: cfg.KDF.SaltBytes,
	})
	userService := service.NewUser(
		sessions,
		hasher,
		validation.NewUserValidator(),
		binding.NewJSONDeserializer(),
		logger,
	)

	notifier := newNotifier(ctx, cfg, logger)
	runner := background.NewRunner(cfg.Background.Limit, logger)

	welcome := handler.Welcome{
		Subject:  cfg.Email.WelcomeSubject,
		Template: cfg.Email.WelcomeTemplate,
	}
	r := router.New(userService, notifier, runner, sessions, welcome, logger)
	app := r.NewApp()
	r.Register(app)

	srv := httpServer.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on",
			"address", s.Address(),
			"manager", sessions.DefaultType())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}
	wg.Wait()

	if err := runner.Wait(shutdownCtx); err != nil {
		logger.Warn("background tasks abandoned", "error", err)
	}

	logger.Info("shutdown complete")
}

// newNotifier writes messages to the object store outbox when it is enabled
// and falls back to logging them otherwise.
func newNotifier(ctx context.Context, cfg *config.Config, logger *logger.Logger) model.Notifier {
	if !cfg.Storage.Enabled {
		return notify.NewLogNotifier(cfg.Email.From, logger)
	}

	store, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	return notify.NewOutbox(store, cfg.Email.From, logger)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
