package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"stadiumbook/internal/booking"
	"stadiumbook/internal/config"
	"stadiumbook/internal/db"
	"stadiumbook/internal/email"
	"stadiumbook/internal/events"
	"stadiumbook/internal/logger"
	"stadiumbook/internal/obs"
	"stadiumbook/internal/server"

	"github.com/redis/go-redis/v9"
)

// @title StadiumBook API
// @version 1.0
// @description Venue listings, availability and booking.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting StadiumBook application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := obs.InitTracer(ctx, "stadiumbook", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatalf("Failed to init tracer: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(email.Options{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
		Location: cfg.Location(),
	}, rdb)
	defer emailService.Close()

	// Workers are drained before the deferred Close calls run.
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		emailService.Start(ctx)
	}()
	logger.Info("Email service initialized")

	publisher, err := events.New(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Fatalf("Failed to connect to message broker: %v", err)
	}
	defer publisher.Close()

	srv := server.New(cfg, database, emailService, publisher)

	workers.Add(1)
	go func() {
		defer workers.Done()
		booking.RunSweeper(ctx, srv.Bookings(), cfg.CompletionSweepInterval)
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	cancel()
	waitWorkers(shutdownCtx, &workers)

	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Errorf("Error flushing traces: %v", err)
	}

	logger.Info("Server stopped")
}

func waitWorkers(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("background workers did not stop before shutdown deadline")
	}
}
