package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/customer"
	"github.com/example/storefront/internal/infrastructure/cache"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/postgres"
	"github.com/example/storefront/internal/media"
	"github.com/example/storefront/internal/order"
	"github.com/example/storefront/internal/review"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Configuration error: %v", err)
	}

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(db); err != nil {
		log.Fatalf("[API] Failed to apply schema: %v", err)
	}
	log.Println("[API] Connected to PostgreSQL")

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()
	log.Printf("[API] Kafka: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)

	// The catalog cache is optional; without REDIS_URL every list hits the DB.
	var listCache catalog.ListCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("[API] Redis unavailable, catalog cache disabled: %v", err)
		} else {
			defer client.Close()
			listCache = cache.NewProductCache(client)
			log.Println("[API] Catalog cache enabled")
		}
	}

	var uploader media.Uploader
	if cfg.S3Bucket != "" {
		s3up, err := media.NewS3Uploader(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)
		if err != nil {
			log.Fatalf("[API] Failed to initialize S3 uploader: %v", err)
		}
		uploader = s3up
		log.Printf("[API] Media uploads to s3://%s", cfg.S3Bucket)
	}

	gate := auth.NewGate(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPasswordHash)

	catalogSvc := catalog.NewService(postgres.NewProductRepo(db), listCache)
	registry := customer.NewRegistry(postgres.NewCustomerRepo(db))
	orderSvc := order.NewService(postgres.NewOrderRepo(db), registry, producer)
	reviewSvc := review.NewService(postgres.NewReviewRepo(db))

	router := api.NewRouter(&api.Handlers{
		Products: api.NewProductHandlers(catalogSvc),
		Orders:   api.NewOrderHandlers(orderSvc),
		Reviews:  api.NewReviewHandlers(reviewSvc),
		Admin:    api.NewAdminHandlers(gate),
		Uploads:  api.NewUploadHandlers(uploader),
	}, gate, db)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}
