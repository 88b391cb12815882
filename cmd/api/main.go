package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shop-notify/internal/application/bridge"
	"github.com/shop-notify/internal/application/feed"
	"github.com/shop-notify/internal/application/notification"
	"github.com/shop-notify/internal/application/product"
	"github.com/shop-notify/internal/application/publisher"
	"github.com/shop-notify/internal/application/wishlist"
	"github.com/shop-notify/internal/config"
	"github.com/shop-notify/internal/events"
	"github.com/shop-notify/internal/infrastructure/dynamo"
	jwtinfra "github.com/shop-notify/internal/infrastructure/jwt"
	"github.com/shop-notify/internal/infrastructure/sns"
	"github.com/shop-notify/internal/realtime"
	transporthttp "github.com/shop-notify/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SNS offline pusher (optional — graceful fallback).
	var pusher sns.Pusher
	if p, err := sns.NewPusher(cfg); err == nil {
		pusher = p
	} else {
		log.Printf("WARN: SNS pusher not available: %v", err)
	}

	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	readMarkRepo := dynamo.NewReadMarkRepo(dynamoClient, cfg.DynamoTables.ReadMarks)
	hiddenMarkRepo := dynamo.NewHiddenMarkRepo(dynamoClient, cfg.DynamoTables.HiddenMarks)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	if cfg.AppEnv == "development" {
		userRepo.SeedDevUsers(context.Background())
	}
	productRepo := dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products)
	wishlistRepo := dynamo.NewWishlistRepo(dynamoClient, cfg.DynamoTables.Wishlists)

	registry := realtime.NewRegistry(wishlistRepo, pusher, cfg.StreamBufferSize, cfg.StreamMaxLifetime)
	defer registry.Close()

	notificationSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: notificationRepo,
		ReadMarkRepo:     readMarkRepo,
		HiddenMarkRepo:   hiddenMarkRepo,
		UserRepo:         userRepo,
		ProductRepo:      productRepo,
		Dispatcher:       registry,
	})
	feedSvc := feed.NewService(feed.ServiceDeps{
		NotificationRepo: notificationRepo,
		ReadMarkRepo:     readMarkRepo,
		HiddenMarkRepo:   hiddenMarkRepo,
		WishlistRepo:     wishlistRepo,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Domain event bus: the product service publishes, the bridge turns
	// events into notifications after the originating write committed.
	bus := events.NewBus(64)
	bridge.New(notificationSvc, wishlistRepo).Register(bus)
	bus.Start(ctx)

	productSvc := product.NewService(productRepo, bus)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo)

	// Publish sweep: promotes due pending notifications on a fixed period.
	go publisher.NewSweeper(notificationRepo, registry, cfg.SweepInterval).Run(ctx)

	deps := &transporthttp.Deps{
		NotificationSvc: notificationSvc,
		FeedSvc:         feedSvc,
		ProductSvc:      productSvc,
		WishlistSvc:     wishlistSvc,
		Registry:        registry,
		JWTProvider:     jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming endpoints hold the connection open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
