package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/warnabrotha/api/internal/cache"
	"github.com/warnabrotha/api/internal/config"
	"github.com/warnabrotha/api/internal/handler"
	"github.com/warnabrotha/api/internal/middleware"
	"github.com/warnabrotha/api/internal/model"
	"github.com/warnabrotha/api/internal/repository"
	"github.com/warnabrotha/api/internal/scheduler"
	"github.com/warnabrotha/api/internal/service"
	"github.com/warnabrotha/api/migrations"
	"github.com/warnabrotha/api/pkg/auth"
	"github.com/warnabrotha/api/pkg/mailer"
	"github.com/warnabrotha/api/pkg/push"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           WarnABrotha API
// @version         1.0
// @description     Crowd-sourced campus parking enforcement alerts: TAPS sightings, risk predictions, parking sessions, and push notifications.

// @contact.name   API Support
// @contact.email  support@warnabrotha.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting WarnABrotha API Server [env=%s]", cfg.App.Env)

	loc, err := time.LoadLocation(cfg.Taps.Timezone)
	if err != nil {
		log.Fatalf("❌ Invalid TAPS timezone %q: %v", cfg.Taps.Timezone, err)
	}

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		// Fallback to AutoMigrate if migration files fail
		if err := db.AutoMigrate(
			&model.ParkingLot{},
			&model.Device{},
			&model.ParkingSession{},
			&model.TapsSighting{},
			&model.Vote{},
			&model.Notification{},
			&model.EmailOTP{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️  Redis unavailable: %v (caching disabled)", err)
		rdb = nil
	} else {
		log.Println("✅ Connected to Redis")
	}
	store := cache.New(rdb)

	// ==================== Email (SMTP / Mailpit) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)

	// ==================== Push Transports ====================
	registry := push.NewRegistry()
	if fcm, err := push.NewFCM(cfg.Push.FirebaseCredentials); err != nil {
		log.Printf("⚠️  FCM init failed: %v (FCM push disabled)", err)
	} else if fcm != nil {
		registry.Register(push.TransportFCM, fcm)
	}
	if apns, err := push.NewAPNs(push.APNsConfig{
		KeyPath:    cfg.Push.APNsKeyPath,
		KeyID:      cfg.Push.APNsKeyID,
		TeamID:     cfg.Push.APNsTeamID,
		BundleID:   cfg.Push.APNsBundleID,
		UseSandbox: cfg.Push.APNsUseSandbox,
	}); err != nil {
		log.Printf("⚠️  APNs init failed: %v (APNs push disabled)", err)
	} else if apns != nil {
		registry.Register(push.TransportAPNs, apns)
	}

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	deviceRepo := repository.NewDeviceRepository(db)
	lotRepo := repository.NewLotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	sightingRepo := repository.NewSightingRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Services
	predictionService := service.NewPredictionService(sightingRepo, store, loc)
	notificationService := service.NewNotificationService(notificationRepo, sessionRepo, registry)
	otpService := service.NewOTPService(otpRepo, deviceRepo, mailClient)
	authService := service.NewAuthService(deviceRepo, otpService, jwtManager)
	parkingService := service.NewParkingService(sessionRepo, lotRepo)
	lotService := service.NewLotService(lotRepo, sessionRepo, sightingRepo, predictionService, store)
	sightingService := service.NewSightingService(sightingRepo, lotRepo, predictionService, notificationService)
	voteService := service.NewVoteService(voteRepo, sightingRepo, store)
	feedService := service.NewFeedService(sightingRepo, lotRepo, voteService)
	reminderService := service.NewReminderService(sessionRepo, notificationService, cfg.Taps.ReminderThreshold)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	lotHandler := handler.NewLotHandler(lotService)
	sessionHandler := handler.NewSessionHandler(parkingService)
	sightingHandler := handler.NewSightingHandler(sightingService, feedService)
	voteHandler := handler.NewVoteHandler(voteService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	predictionHandler := handler.NewPredictionHandler(predictionService)

	// ==================== Scheduler ====================
	sched, err := scheduler.New(reminderService, loc, cfg.Taps.ScanInterval, cfg.Taps.AutoCheckoutHour)
	if err != nil {
		log.Fatalf("❌ Failed to build scheduler: %v", err)
	}
	sched.Start()

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "warnabrotha-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/auth/register", authHandler.Register)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			// Auth
			protected.POST("/auth/send-otp", authHandler.SendOTP)
			protected.POST("/auth/verify-otp", authHandler.VerifyOTP)
			protected.PUT("/auth/device", authHandler.UpdateDevice)

			// Lots
			protected.GET("/lots", lotHandler.List)
			protected.GET("/lots/:id", lotHandler.Get)
			protected.GET("/lots/code/:code", lotHandler.GetByCode)

			// Sessions
			protected.POST("/sessions/checkin", sessionHandler.CheckIn)
			protected.POST("/sessions/checkout", sessionHandler.CheckOut)
			protected.GET("/sessions/current", sessionHandler.Current)

			// Sightings + feed
			protected.POST("/sightings", sightingHandler.Report)
			protected.GET("/feed", sightingHandler.AllFeeds)
			protected.GET("/feed/:id", sightingHandler.LotFeed)

			// Votes
			protected.POST("/sightings/:id/vote", voteHandler.Cast)
			protected.DELETE("/sightings/:id/vote", voteHandler.Remove)
			protected.GET("/sightings/:id/votes", voteHandler.Get)

			// Notifications
			protected.GET("/notifications", notificationHandler.List)
			protected.POST("/notifications/read", notificationHandler.MarkRead)

			// Predictions
			protected.GET("/predictions", predictionHandler.Predict)
			protected.POST("/predictions", predictionHandler.PredictAt)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 WarnABrotha API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("📄 Swagger JSON: http://0.0.0.0:%s/docs/swagger.json", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	sched.Stop()

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	store.Close()
	log.Println("✅ Server exited gracefully")
}
