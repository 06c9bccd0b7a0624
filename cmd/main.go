package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equipdash/internal/config"
	"equipdash/internal/handlers"
	"equipdash/internal/middleware"
	"equipdash/internal/repository"
	"equipdash/internal/service"
	"equipdash/pkg/database"
	"equipdash/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Equipment Dashboard Backend Starting ===")

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Redis опционален: без него сводки читаются напрямую из БД
	var cacheRepo repository.CacheRepository
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		client, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("Redis unavailable, summary cache disabled: %v", err)
		} else {
			defer client.Close()
			redisClient = client
			cacheRepo = repository.NewCacheRepository(redisClient)
		}
	}

	// Инициализация слоев
	datasetRepo := repository.NewDatasetRepository(db)
	equipmentService := service.NewEquipmentService(datasetRepo, cacheRepo,
		cfg.History.Limit, cfg.History.CacheTTL)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService, datasetRepo, redisClient)

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS для web- и desktop-клиентов
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting (только для продакшена)
	if !cfg.App.Debug {
		ipLimiter := middleware.NewIPRateLimiter(
			rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(ipLimiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	registerRoutes(r, equipmentHandler)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("Retention: keeping %d newest datasets", cfg.History.Limit)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}

// registerRoutes — пути совместимы с существующими клиентами (Django-стиль).
func registerRoutes(r *gin.Engine, h *handlers.EquipmentHandler) {
	r.POST("/upload/", h.Upload)
	r.GET("/summary/", h.Summary)
	r.GET("/history/", h.History)
	r.GET("/report_pdf/", h.ReportPDF)
	r.GET("/export_excel/", h.ExportExcel)
	r.GET("/health/", h.Health)
}
