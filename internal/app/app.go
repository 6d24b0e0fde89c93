package app

import (
	"context"
	"fmt"
	"time"

	"easybuk_backend/database"
	"easybuk_backend/internal/auth"
	"easybuk_backend/internal/config"
	"easybuk_backend/internal/email"
	"easybuk_backend/internal/handlers"
	"easybuk_backend/internal/logger"
	"easybuk_backend/internal/middleware"
	"easybuk_backend/internal/repositories"
	"easybuk_backend/internal/routes"
	"easybuk_backend/internal/services"
	"easybuk_backend/internal/validator"
	"easybuk_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.InitJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB)

	worker := workers.NewNotificationWorker(
		serviceContainer.NotificationService,
		cfg.Notifications.RetentionDays,
		time.Duration(cfg.Notifications.CleanupInterval)*time.Hour,
	)
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	emailProvider := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})

	userRepo := repositories.NewUserRepository(gormDB)
	entityRepo := repositories.NewEntityRepository(gormDB)
	bookingRepo := repositories.NewBookingRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)
	disputeRepo := repositories.NewDisputeRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	resolver := services.NewEntityResolver(entityRepo)
	notificationService := services.NewNotificationService(notificationRepo, resolver)
	authService := services.NewAuthService(userRepo, entityRepo, notificationService, emailProvider)
	bookingService := services.NewBookingService(bookingRepo, paymentRepo, entityRepo, resolver, notificationService)
	disputeService := services.NewDisputeService(disputeRepo, bookingRepo, entityRepo, resolver, notificationService)
	adminService := services.NewAdminService(bookingRepo, disputeRepo, userRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		BookingService:      bookingService,
		DisputeService:      disputeService,
		NotificationService: notificationService,
		AdminService:        adminService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService),
		BookingHandler:      handlers.NewBookingHandler(baseHandler, serviceContainer.BookingService, serviceContainer.DisputeService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, serviceContainer.AdminService, serviceContainer.DisputeService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
