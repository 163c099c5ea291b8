package server

import (
	"context"
	"os"

	"task-tracker/auth"
	"task-tracker/config"
	"task-tracker/database"
	"task-tracker/notify"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitLogger configures the process-wide logger
func InitLogger() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
}

// StartServer runs the HTTP service until SIGINT/SIGTERM, then drains in-flight requests
func StartServer(cfg config.Config) {
	logger.Info("Starting Task Tracker Service...")

	dbConn, err := database.InitializeDatabase(context.Background(), cfg.DatabasePath)
	if err != nil {
		logger.Error("Database initialization failed", zap.Error(err))
		os.Exit(1)
	}
	defer dbConn.Close()

	server := NewServer(cfg.Port, Dependencies{
		DB:       dbConn,
		Hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		Tokens:   auth.NewTokenService(cfg.SecretKey),
		Notifier: notify.NewEmailLogNotifier(),
		TokenTTL: cfg.TokenTTL,
	})

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	logger.Info("Task Tracker Service started", zap.String("port", cfg.Port))
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: POST /token, POST /users/, GET/POST /tasks/, GET/PUT/DELETE /tasks/{id}")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated...")
				return server.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Task Tracker Service stopped", zap.Int("exit_code", exitCode))
	if exitCode != 0 {
		dbConn.Close()
		os.Exit(exitCode)
	}
}
