package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bgoldmann/darkstore/internal/app/background"
	"github.com/bgoldmann/darkstore/internal/app/setup"
	"github.com/bgoldmann/darkstore/internal/config"
	"github.com/bgoldmann/darkstore/internal/delivery/grpcapi"
	httpdelivery "github.com/bgoldmann/darkstore/internal/delivery/http"
	"github.com/bgoldmann/darkstore/internal/delivery/http/handlers"
	"github.com/bgoldmann/darkstore/internal/delivery/http/middleware"
	"github.com/bgoldmann/darkstore/internal/infrastructure/logger"
	"github.com/bgoldmann/darkstore/internal/infrastructure/migrate"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	if err := migrate.RunMigrations(deps.DB, cfg.OrderDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// HTTP
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewActorRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	limiter.StartCleanup(ctx, time.Minute)
	router := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		EscrowHandler:   handlers.NewEscrowHandler(ucs.EscrowUsecase),
		CheckoutHandler: handlers.NewCheckoutHandler(ucs.CheckoutUsecase, ucs.EscrowUsecase),
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		RateLimiter:     limiter,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC health
	sqlDB, err := deps.DB.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthReporter := grpcapi.NewHealthReporter(sqlDB, 15*time.Second)
	healthReporter.Register(grpcServer)
	go healthReporter.Run(ctx)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// Background monitors
	tasks := background.NewBackgroundTasks(deps.Repositories.OrderRepo, deps.Metrics, cfg.Escrow.OverdueScanInterval)
	tasks.StartAll(ctx)

	go func() {
		slog.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err.Error())
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err.Error())
	}
	grpcServer.GracefulStop()
}
