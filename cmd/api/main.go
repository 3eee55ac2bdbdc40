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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/otp-api/internal/config"
	"github.com/yourusername/otp-api/internal/domain/repository"
	"github.com/yourusername/otp-api/internal/handler"
	pgRepo "github.com/yourusername/otp-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/otp-api/internal/repository/redis"
	"github.com/yourusername/otp-api/internal/service"
	"github.com/yourusername/otp-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	verificationRepo := pgRepo.NewEmailVerificationRepo(db)

	// Хранилище одноразовых кодов выбирается конфигурацией
	var otpRepo repository.OtpRequestRepository
	switch cfg.Otp.Storage {
	case config.OtpStorageRedis:
		redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")
		otpRepo, err = redisRepo.NewOtpRequestRepo(redisClient)
		if err != nil {
			log.Printf("Failed to initialize redis OtpRequestRepo: %v", err)
			os.Exit(1)
		}
	default:
		otpRepo = pgRepo.NewOtpRequestRepo(db)
	}

	// Почтовый провайдер опционален: без него запрос кода по email
	// завершается ошибкой конфигурации (запись при этом создается)
	var emailService service.EmailService
	if cfg.Mail.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Otp.CodeTTL)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("ВНИМАНИЕ: почтовый провайдер не сконфигурирован, доставка кодов по email отключена")
	}

	// Инициализируем сервисы
	otpService, err := service.NewOtpService(otpRepo, emailService, cfg.Otp.CodeTTL, cfg.Otp.MaxAttempts)
	if err != nil {
		log.Printf("Failed to initialize OtpService: %v", err)
		os.Exit(1)
	}
	resetService, err := service.NewPasswordResetService(userRepo, verificationRepo)
	if err != nil {
		log.Printf("Failed to initialize PasswordResetService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	otpHandler := handler.NewOtpHandler(otpService)
	resetHandler := handler.NewPasswordResetHandler(resetService)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		otp := api.Group("/otp")
		{
			otp.POST("/request", otpHandler.RequestOtp)
			otp.POST("/check", otpHandler.CheckOtp)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/reset-password", resetHandler.ResetPassword)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
