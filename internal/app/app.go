package app

import (
	"context"
	"fmt"

	"chatline_backend/database"
	"chatline_backend/internal/config"
	"chatline_backend/internal/handlers"
	"chatline_backend/internal/logger"
	"chatline_backend/internal/middleware"
	"chatline_backend/internal/repositories"
	repoChat "chatline_backend/internal/repositories/chat"
	"chatline_backend/internal/routes"
	"chatline_backend/internal/services"
	chatsvc "chatline_backend/internal/services/chat"
	"chatline_backend/internal/storage"
	"chatline_backend/internal/validator"
	"chatline_backend/internal/workers"
	"chatline_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
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
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	presenceWorker := workers.NewPresenceWorker(gormDB)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	presenceWorker.Start(workerCtx)

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine with every dependency wired.
// Tests call it directly with their own database handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	container, manager := initializeServices(cfg, gormDB, storageInstance)
	appHandlers, base := initializeHandlers(container)

	wsHandler := ws.NewHandler(manager, container.MessageService)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, base)
	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		routes.ServeUploads(ginRouter, cfg.Storage.BasePath)
	}

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) (*services.ServiceContainer, *ws.Manager) {
	userRepo := repositories.NewUserRepository(gormDB)
	uploadRepo := repositories.NewUploadRepository(gormDB)
	roomRepo := repoChat.NewRoomRepository(gormDB)
	participantRepo := repoChat.NewGroupParticipantRepository(gormDB)
	messageRepo := repoChat.NewMessageRepository(gormDB)
	statusRepo := repoChat.NewMessageStatusRepository(gormDB)
	requestRepo := repoChat.NewChatRequestRepository(gormDB)

	manager := ws.NewManager(userRepo)

	roomService := chatsvc.NewRoomService(roomRepo, participantRepo, messageRepo, statusRepo, userRepo)
	messageService := chatsvc.NewMessageService(messageRepo, statusRepo, roomService, manager)
	requestService := chatsvc.NewRequestService(requestRepo, roomRepo, userRepo)

	container := &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo),
		UserService:    services.NewUserService(userRepo),
		UploadService:  services.NewUploadService(uploadRepo, storageInstance, &cfg.Upload),
		RoomService:    roomService,
		MessageService: messageService,
		RequestService: requestService,
		Storage:        storageInstance,
	}
	return container, manager
}

func initializeHandlers(container *services.ServiceContainer) (*handlers.AppHandlers, *handlers.BaseHandler) {
	v := validator.New()
	base := handlers.NewBaseHandler(v)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(base, container.AuthService),
		UserHandler:    handlers.NewUserHandler(base, container.UserService),
		RequestHandler: handlers.NewRequestHandler(base, container.RequestService),
		ChatHandler:    handlers.NewChatHandler(base, container.RoomService, container.MessageService),
		UploadHandler:  handlers.NewUploadHandler(base, container.UploadService),
	}, base
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.DBMiddleware(gormDB))
	return r
}
