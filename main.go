package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"challengeTrackerAPI/handlers"
	"challengeTrackerAPI/internal/config"
	"challengeTrackerAPI/internal/metrics"
	"challengeTrackerAPI/internal/notification"
	"challengeTrackerAPI/internal/session"
	"challengeTrackerAPI/internal/storage"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/workers"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"

	_ "net/http/pprof"
)

var (
	cfg                 *config.Config
	pgStore             *store.PGStore
	sessionStore        *session.RedisStore
	userService         *services.UserService
	challengeService    *services.ChallengeService
	dailyLogService     *services.DailyLogService
	leaderboardService  *services.LeaderboardService
	notificationService *services.NotificationService
	uploadService       *services.UploadService
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := middleware.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStore, err = store.NewPGStore(ctx, store.PGConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Println("Successfully connected to PostgreSQL")

	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	sessionStore, err = session.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	log.Println("Successfully connected to Redis")

	notificationService = services.NewNotificationService(pgStore)
	userService = services.NewUserService(pgStore, sessionStore, cfg.JWTSecret, cfg.SessionTTL)
	challengeService = services.NewChallengeService(pgStore, notificationService)
	dailyLogService = services.NewDailyLogService(pgStore)
	leaderboardService = services.NewLeaderboardService(pgStore)

	fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	var presigner services.Presigner
	if cfg.S3Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			PublicBaseURL:   cfg.CDNBaseURL,
		})
		if err != nil {
			log.Printf("Warning: Could not initialize S3 storage: %v", err)
		} else {
			presigner = s3Storage
			log.Println("S3 storage initialized successfully")
		}
	}
	uploadService = services.NewUploadService(presigner)

	if err := userService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to bootstrap admin account: ", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)
	middleware.InitPrometheus(prometheus.DefaultRegisterer)
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		pgStore.Close()
		if err := sessionStore.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}()

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()
	standardRouter.Use(middleware.LoggerMiddleware)
	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := pgStore.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		if err := sessionStore.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "redis connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "challenge-tracker-api"}`))
	}).Methods("GET")

	handlers.RegisterRoutes(standardRouter, &handlers.Services{
		Users:         userService,
		Challenges:    challengeService,
		DailyLogs:     dailyLogService,
		Leaderboard:   leaderboardService,
		Notifications: notificationService,
		Uploads:       uploadService,
	})
	r.NotFoundHandler = http.HandlerFunc(middleware.NotFoundHandler)

	scheduler, err := workers.NewScheduler(notificationService, cfg.ReminderCron, middleware.CleanupVisitors)
	if err != nil {
		log.Fatal("Failed to create scheduler: ", err)
	}
	scheduler.Start()

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	notificationService.Stop()

	log.Println("Server shutdown complete")
}
