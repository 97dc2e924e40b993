package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/marketplace-pricer/internal/config"
	"github.com/anyulbade/marketplace-pricer/internal/database"
	"github.com/anyulbade/marketplace-pricer/internal/handler"
	"github.com/anyulbade/marketplace-pricer/internal/metrics"
	"github.com/anyulbade/marketplace-pricer/internal/middleware"
	"github.com/anyulbade/marketplace-pricer/internal/ratetable"
	"github.com/anyulbade/marketplace-pricer/internal/repository"
	"github.com/anyulbade/marketplace-pricer/internal/service"
	"github.com/anyulbade/marketplace-pricer/internal/store"
	"github.com/anyulbade/marketplace-pricer/internal/templates"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		var err error
		pool, err = database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
	}

	rates, err := loadRates(ctx, cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rate table")
	}
	log.Info().
		Str("source", cfg.RatesSource).
		Int("categories", len(rates.Categories)).
		Msg("rate table loaded")

	productStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open product store")
	}
	defer closeStore()

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	healthHandler := handler.NewHealthHandler(pool, productStore)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", metrics.Handler())

	handler.SetupSwagger(router)
	if err := setupAPIRoutes(router, cfg, rates, productStore); err != nil {
		log.Fatal().Err(err).Msg("failed to set up routes")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func loadRates(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*ratetable.Table, error) {
	switch cfg.RatesSource {
	case config.RatesFile:
		return ratetable.LoadFile(cfg.RatesFile)

	case config.RatesPostgres:
		base := ratetable.Default()
		if cfg.AutoMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			if err := database.SeedRates(ctx, pool, base); err != nil {
				return nil, fmt.Errorf("seed rates: %w", err)
			}
		}
		return repository.NewRateRepository(pool).Table(ctx, base)
	}

	return ratetable.Default(), nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.ProductStore, func(), error) {
	if cfg.StoreBackend != config.StoreRedis {
		return store.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
	}

	return store.NewRedisStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
}

func setupAPIRoutes(router *gin.Engine, cfg *config.Config, rates *ratetable.Table, productStore store.ProductStore) error {
	quoteService := service.NewQuoteService(rates, cfg.BatchConcurrency)
	productService := service.NewProductService(quoteService, productStore)
	exportService, err := service.NewExportService(rates, templates.Report)
	if err != nil {
		return err
	}

	rateHandler := handler.NewRateHandler(rates)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	productHandler := handler.NewProductHandler(productService)
	exportHandler := handler.NewExportHandler(productService, exportService)

	api := router.Group("/api/v1")
	api.Use(middleware.Session(cfg.SessionTTL))
	{
		api.GET("/rates", rateHandler.GetRates)
		api.POST("/quotes", quoteHandler.Create)
		api.POST("/quotes/batch", quoteHandler.CreateBatch)
		api.POST("/products", productHandler.Create)
		api.GET("/products", productHandler.List)
		api.DELETE("/products", productHandler.Clear)
		api.GET("/products/export", exportHandler.Export)
	}
	return nil
}
