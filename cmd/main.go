package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pantoufles-app/internal/config"
	"pantoufles-app/internal/handler"
	"pantoufles-app/internal/repository"
	"pantoufles-app/internal/services"
	"pantoufles-app/internal/utils"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	db := mongoClient.Database(cfg.Mongo.DBName)

	shutdownManager.Register("MongoDB connection", func(ctx context.Context) error {
		return mongoClient.Disconnect(ctx)
	})

	cache, err := utils.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	shutdownManager.Register("Redis connection", func(ctx context.Context) error {
		return cache.Close()
	})

	clientRepo := repository.NewClientRepository(db)
	intervenantRepo := repository.NewIntervenantRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	notifier := services.NewSMTPNotifier(cfg.SMTP)
	clientService := services.NewClientService(clientRepo, notifier)
	intervenantService := services.NewIntervenantService(intervenantRepo)
	missionService := services.NewMissionService(missionRepo, clientRepo, notifier)
	archiveService := services.NewArchiveService(missionRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	statsService := services.NewStatsService(clientRepo, intervenantRepo, missionRepo, cache)
	statsService.StartRefresher(ctx)

	jwtUtil := utils.NewJWTUtil(cfg.Admin.JWTSecret)
	chatClient := utils.NewChatClient(cfg.Chat.APIKey, cfg.Chat.Model)

	authHandler := handler.NewAuthHandler(cfg.Admin, jwtUtil)
	clientHandler := handler.NewClientHandler(clientService, statsService)
	intervenantHandler := handler.NewIntervenantHandler(intervenantService, statsService)
	missionHandler := handler.NewMissionHandler(missionService, statsService)
	archiveHandler := handler.NewArchiveHandler(archiveService, intervenantService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	statsHandler := handler.NewStatsHandler(statsService)
	glueHandler := handler.NewGlueHandler(chatClient, cfg.Maps)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", glueHandler.Health)
		api.GET("/maps-key", glueHandler.MapsKey)
		api.POST("/chat", glueHandler.Chat)
		api.POST("/signup", clientHandler.Signup)
		api.POST("/apply", intervenantHandler.Apply)
		api.POST("/login", authHandler.Login)

		admin := api.Group("/admin")
		admin.Use(utils.AuthMiddleware(jwtUtil), utils.RequireRoles("admin"))
		{
			admin.GET("/stats", statsHandler.Get)

			admin.GET("/clients", clientHandler.GetAll)
			admin.GET("/clients/:id", clientHandler.GetByID)
			admin.PUT("/clients/:id", clientHandler.Update)
			admin.PATCH("/clients/:id/status", clientHandler.UpdateStatus)
			admin.DELETE("/clients/:id", clientHandler.Delete)

			admin.GET("/intervenants", intervenantHandler.GetAll)
			admin.POST("/intervenants", intervenantHandler.Apply)
			admin.PUT("/intervenants/:id", intervenantHandler.Update)
			admin.DELETE("/intervenants/:id", intervenantHandler.Delete)

			admin.GET("/missions", missionHandler.GetAll)
			admin.POST("/missions", missionHandler.Create)
			admin.GET("/missions/archived", archiveHandler.GetArchived)
			admin.POST("/missions/archive", archiveHandler.Archive)
			admin.GET("/missions/:id", missionHandler.GetByID)
			admin.PUT("/missions/:id", missionHandler.Edit)
			admin.PATCH("/missions/:id/billing", missionHandler.UpdateBilling)
			admin.PATCH("/missions/:id/status", missionHandler.UpdateStatus)
			admin.DELETE("/missions/:id", missionHandler.Delete)

			admin.GET("/reports", archiveHandler.Report)

			admin.GET("/settings", settingsHandler.Get)
			admin.PUT("/settings", settingsHandler.Save)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("PANTOUFLES backend running on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register("HTTP server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	shutdownManager.Wait()
	log.Println("[SHUTDOWN] PANTOUFLES backend stopped")
}
