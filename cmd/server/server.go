package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/api"
	"revuverse-backend-go/internal/config"
	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/db"
	"revuverse-backend-go/internal/middleware"
	"revuverse-backend-go/internal/notify"
	"revuverse-backend-go/internal/payment"
	"revuverse-backend-go/internal/places"
	"revuverse-backend-go/pkg/cache"
	"revuverse-backend-go/pkg/messagequeue"
)

const shutdownTimeout = 10 * time.Second

// runServer wires every dependency, serves HTTP and shuts down on SIGINT or SIGTERM.
func runServer(parent context.Context, appConfig *config.Config, logger *zap.Logger) error {
	initCtx, cancelInit := context.WithTimeout(contextOrBackground(parent), 15*time.Second)
	defer cancelInit()

	var firebaseApp *firebase.App
	if appConfig.UsesFirebase() {
		app, err := db.NewFirebaseApp(initCtx, appConfig, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase Admin SDK: %w", err)
		}
		firebaseApp = app
	}

	store, err := db.Open(initCtx, appConfig, firebaseApp, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Redis backs both the Places cache and the cross-instance locks. Without it the locks
	// only hold within this process.
	var sharedCache interface {
		cache.Cache
		cache.Locker
	}
	if appConfig.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(initCtx, appConfig.RedisURL, "revuverse:", logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close() //nolint:errcheck
		sharedCache = redisCache
	} else {
		logger.Warn("REDIS_URL not set, using in-process cache and locks")
		sharedCache = cache.NewMemoryCache()
	}

	var publisher messagequeue.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbit, err := messagequeue.NewRabbitMQPublisher(appConfig.RabbitMQURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		publisher = rabbit
	} else {
		publisher = messagequeue.NewNoopPublisher(logger)
	}
	defer publisher.Close() //nolint:errcheck

	channels, err := notify.New(appConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to configure notification channels: %w", err)
	}

	var gateway payment.Gateway
	if appConfig.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret, logger)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, billing endpoints will fail")
	}

	var placesLookup api.PlacesLookup
	if appConfig.GoogleAPIKey != "" {
		placesService, err := places.NewService(appConfig.GoogleAPIKey, sharedCache, appConfig.PlacesCacheTTL, logger)
		if err != nil {
			return fmt.Errorf("failed to create places client: %w", err)
		}
		placesLookup = placesService
	} else {
		logger.Warn("GOOGLE_API_KEY not set, places endpoints will fail")
	}

	auditService := core.NewAuditService(store.Audit, publisher, logger)
	userService := core.NewUserService(store.Users, store.Subscriptions, logger)
	notificationService := core.NewNotificationService(channels, appConfig.SendGridTemplateID, appConfig.FrontendURL, logger)
	businessService := core.NewBusinessService(store.Businesses, auditService, sharedCache, appConfig.QuotaLockTTL, logger)
	subscriptionService := core.NewSubscriptionService(
		store.Subscriptions, store.Users, store.ReviewRequests, gateway, auditService, appConfig.FrontendURL, logger,
	)
	feedbackService := core.NewFeedbackService(
		store.Feedback, store.Businesses, store.Users, notificationService, auditService, logger,
	)
	reviewRequestService := core.NewReviewRequestService(
		store.ReviewRequests, store.Businesses, subscriptionService, feedbackService, notificationService,
		auditService, sharedCache, appConfig.QuotaLockTTL, logger,
	)
	phoneService := core.NewPhoneService(channels.SMS, channels.Verifier, logger)

	verifier, err := newTokenVerifier(initCtx, appConfig, firebaseApp)
	if err != nil {
		return err
	}
	authMW := middleware.NewAuthMiddleware(verifier, userService, logger)

	if strings.EqualFold(appConfig.GinMode, gin.ReleaseMode) {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(appConfig.FrontendURL))

	api.SetupRoutes(router, appConfig, logger, authMW, api.Services{
		Users:          userService,
		Businesses:     businessService,
		Subscriptions:  subscriptionService,
		ReviewRequests: reviewRequestService,
		Feedback:       feedbackService,
		Phone:          phoneService,
		Places:         placesLookup,
	})

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server exited gracefully")
	return nil
}

func newTokenVerifier(ctx context.Context, appConfig *config.Config, app *firebase.App) (middleware.TokenVerifier, error) {
	if appConfig.AuthProvider == config.AuthFirebase {
		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Firebase Auth client: %w", err)
		}
		return middleware.NewFirebaseVerifier(authClient), nil
	}
	return middleware.NewJWTVerifier(appConfig.JWTSecret), nil
}
