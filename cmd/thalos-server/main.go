package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alelanderos/Thalos-app/internal/config"
	"github.com/Alelanderos/Thalos-app/internal/domain/reactive"
	"github.com/Alelanderos/Thalos-app/internal/platform/auth"
	"github.com/Alelanderos/Thalos-app/internal/platform/middleware"
	"github.com/Alelanderos/Thalos-app/internal/platform/reminder"
	"github.com/Alelanderos/Thalos-app/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thalos-server",
		Short: "Thalos reactive reminder API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(pinCmd())
	rootCmd.AddCommand(dataCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Thalos API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "PIN management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash <pin>",
		Short: "Print the bcrypt hash for a PIN, for use as AUTH_PIN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPIN(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	})

	return cmd
}

func dataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Stored data management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all stored reactives and dose history",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.StoreDriver != "postgres" {
				return fmt.Errorf("data clear requires STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
			}

			ctx := context.Background()
			pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			kv, err := store.NewPostgres(ctx, pool)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			if err := kv.RemoveMany(ctx, reactive.ReactivesKey, reactive.DoseHistoryKey); err != nil {
				return fmt.Errorf("clear data: %w", err)
			}
			logger.Info().Msg("all stored data cleared")
			return nil
		},
	})

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Store
	ctx := context.Background()
	var kv store.Store
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		pg, err := store.NewPostgres(ctx, pool)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init store")
		}
		kv = pg
		logger.Info().Msg("connected to database")
	default:
		kv = store.NewMemory()
		logger.Info().Msg("using in-memory store")
	}

	var locker store.Locker = store.NewKeyLocker()
	if cfg.LockMode == "none" {
		locker = store.NoopLocker{}
	}

	// Domain wiring
	queue := reminder.NewMemoryQueue()
	scheduler := reminder.NewScheduler(queue, logger)
	repo := reactive.NewStoreRepository(kv, locker, logger)
	svc := reactive.NewService(repo, scheduler, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth
	gate := auth.NewGate(cfg.AuthPINHash, []byte(cfg.SessionSecret), time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	authHandler := auth.NewHandler(gate)
	authHandler.RegisterRoutes(e.Group(""))

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevMiddleware())
	} else {
		apiV1.Use(auth.Middleware(gate))
	}

	// Handlers
	reactive.NewHandler(svc).RegisterRoutes(apiV1)
	reminder.NewHandler(queue).RegisterRoutes(apiV1)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
