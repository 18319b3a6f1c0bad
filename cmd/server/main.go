package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/amaralBruno27866/member-platform-test-sub006/internal/config"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/events"
	internalhttp "github.com/amaralBruno27866/member-platform-test-sub006/internal/http"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/recordstore"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/repository"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/service"
	"github.com/amaralBruno27866/member-platform-test-sub006/internal/session"
	"github.com/amaralBruno27866/member-platform-test-sub006/pkg/logging"
	"github.com/amaralBruno27866/member-platform-test-sub006/pkg/metrics"
	"github.com/amaralBruno27866/member-platform-test-sub006/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("commerce", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New("commerce", cfg.LogLevel)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	store := session.NewRedisStore(redisClient)

	rsClient := recordstore.NewClient(recordstore.Config{
		BaseURL:     cfg.RecordStoreURL,
		BearerToken: cfg.RecordStoreToken,
		Timeout:     cfg.RecordStoreTimeout,
	}, logger)

	products := repository.NewProductCatalog(rsClient)
	lines := repository.NewOrderLineRepository(rsClient)
	orders := repository.NewOrderRepository(rsClient)

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn().Msg("no kafka brokers configured, checkout notifications disabled")
	}

	serverMetrics := metrics.NewServerMetrics("server")

	cartService := service.NewCartService(store, products, logger)
	checkoutService := service.NewCheckoutService(cartService, lines, orders, store, publisher, logger)
	draftService := service.NewDraftService(orders, lines, logger)

	router := internalhttp.NewRouter(
		internalhttp.NewCartHandler(cartService, logger),
		internalhttp.NewCheckoutHandler(checkoutService, serverMetrics, logger),
		internalhttp.NewDraftHandler(draftService, logger),
		serverMetrics,
		logger,
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	// Let in-flight checkout notifications settle before exit.
	checkoutService.Wait()
	logger.Info().Msg("shutdown complete")
}
