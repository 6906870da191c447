package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/bakery-BE/api"
	ordertracking "github.com/katatrina/bakery-BE/internal/order_tracking"
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/katatrina/bakery-BE/internal/util"
	"github.com/katatrina/bakery-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	
	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}
	
	log.Info().Msg("configurations loaded successfully ✅")
	
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	
	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	if err = redisDb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis 😣")
	}
	log.Info().Msg("connected to redis ✅")
	
	courier := pathao.NewClient(pathao.Config{
		ClientID:       config.PathaoClientID,
		ClientSecret:   config.PathaoClientSecret,
		Username:       config.PathaoUsername,
		Password:       config.PathaoPassword,
		BaseURL:        config.PathaoBaseURL,
		StoreID:        config.PathaoStoreID,
		RequestTimeout: config.PathaoRequestTimeout,
	}, pathao.WithTokenStore(pathao.NewRedisTokenStore(redisDb, pathao.DefaultTokenKey)))
	defer courier.Close()
	log.Info().Str("base_url", courier.Config().BaseURL).Msg("pathao client created successfully ✅")
	
	shipmentStore := shipment.NewRedisStore(redisDb)
	
	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}
	taskDistributor := worker.NewTaskDistributor(redisOpt)
	defer taskDistributor.Close()
	
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, courier, shipmentStore)
	if err = taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
	defer taskProcessor.Shutdown()
	log.Info().Msg("task processor started ✅")
	
	tracker, err := ordertracking.NewOrderTracker(shipmentStore, courier, config.TrackingInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create order tracker 😣")
	}
	if err = tracker.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start order tracker 😣")
	}
	defer func() {
		if err := tracker.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop order tracker")
		}
	}()
	
	runHTTPServer(ctx, config, courier, shipmentStore, taskDistributor)
}

func runHTTPServer(ctx context.Context, config util.Config, courier pathao.ICourierProvider, shipmentStore shipment.Store, taskDistributor worker.TaskDistributor) {
	server, err := api.NewServer(&config, courier, shipmentStore, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}
	
	httpServer := &http.Server{
		Addr:    config.HTTPServerAddress,
		Handler: server.Handler(),
	}
	
	go func() {
		<-ctx.Done()
		
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down HTTP server")
		}
	}()
	
	log.Info().Str("address", config.HTTPServerAddress).Msg("starting HTTP server ✅")
	
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
