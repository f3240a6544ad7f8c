package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecoreport-service/config"
	"ecoreport-service/handlers"
	"ecoreport-service/images"
	"ecoreport-service/metrics"
	"ecoreport-service/middleware"
	"ecoreport-service/rabbitmq"
	"ecoreport-service/service"
	"ecoreport-service/storage"
	"ecoreport-service/translate"
	ws "ecoreport-service/websocket"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()
	clock := clockwork.NewRealClock()

	store := storage.NewStore(cfg.ReportsFile)
	imgs := images.NewStore(cfg.ImageRoot, clock)
	if err := imgs.EnsureFolders(); err != nil {
		log.Fatalf("Failed to prepare image folders: %v", err)
	}

	var publisher *rabbitmq.Publisher
	if cfg.AMQPUrl != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			log.Warnf("RabbitMQ disabled, failed to connect: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
			log.Infof("Publishing accepted reports to exchange %s", cfg.AMQPExchange)
		}
	}

	hub := ws.NewHub()
	go hub.Run()

	svc := service.New(store, imgs, publisher, hub, clock)
	translator := translate.NewClient(cfg.TranslateBaseURL, cfg.TranslateTimeout)

	var submitLimiter gin.HandlerFunc
	if cfg.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warnf("Rate limiting disabled, Redis unreachable: %v", err)
		} else {
			submitLimiter = middleware.SubmitRateLimiter(client, cfg.SubmitRateLimit, cfg.SubmitRateWindow)
			log.Infof("Rate limiting submissions to %d per %s per IP", cfg.SubmitRateLimit, cfg.SubmitRateWindow)
		}
		cancel()
	}

	h := handlers.NewHandlers(svc, translator, imgs, hub, cfg)
	router := handlers.NewRouter(h, cfg, submitLimiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
