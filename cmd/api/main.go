package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/handlers"
	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/middleware"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database connected")

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		zlog.Fatal("failed to initialize gemini", zap.Error(err))
	}

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		zlog.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(); err != nil {
		zlog.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	matcher := services.NewGeminiMatcher(geminiService, qdrantService, zlog)
	runner := services.NewHTTPCodeRunner(cfg.Runner.BaseURL, cfg.Runner.Timeout)
	material := services.NewMaterialService(cfg.Storage.UploadPath)

	// Realtime hub and notification dispatcher
	hub := services.NewHub(zlog)
	dispatcher := services.NewDispatcher(
		notificationRepo,
		hub,
		zlog,
		cfg.Dispatcher.Concurrency,
		cfg.Dispatcher.RetryMaxAttempts,
		cfg.Dispatcher.RetryDelay,
	)
	dispatcher.Start()

	// Pipeline orchestrator
	pipeline := services.NewPipelineService(
		appRepo,
		jobRepo,
		challengeRepo,
		submissionRepo,
		interviewRepo,
		offerRepo,
		userRepo,
		matcher,
		runner,
		material,
		dispatcher,
		zlog,
		cfg.Server.MeetingBase,
	)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(pipeline)
	challengeHandler := handlers.NewChallengeHandler(pipeline)
	interviewHandler := handlers.NewInterviewHandler(pipeline)
	offerHandler := handlers.NewOfferHandler(pipeline)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	wsHandler := handlers.NewWSHandler(hub, zlog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hiring Pipeline API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	authed := api.Group("", middleware.Identity(userRepo))

	authed.Post("/applications", applicationHandler.HandleApply)
	authed.Get("/applications/me", applicationHandler.HandleListMine)
	authed.Get("/applications/job/:jobId", applicationHandler.HandleListByJob)
	authed.Put("/applications/:id/status", applicationHandler.HandleOverrideStatus)

	authed.Post("/challenges/send", challengeHandler.HandleSend)
	authed.Post("/challenges/submit", challengeHandler.HandleSubmit)

	authed.Post("/interviews", interviewHandler.HandleSchedule)
	authed.Put("/interviews/:id/complete", interviewHandler.HandleComplete)
	authed.Put("/interviews/:id/cancel", interviewHandler.HandleCancel)

	authed.Post("/offers", offerHandler.HandleMake)
	authed.Put("/offers/:id/respond", offerHandler.HandleRespond)

	authed.Get("/notifications/me", notificationHandler.HandleListMine)
	authed.Put("/notifications/:id/read", notificationHandler.HandleMarkRead)

	authed.Get("/ws", wsHandler.Upgrade, websocket.New(wsHandler.HandleConnection))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		hub.Shutdown()
		dispatcher.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
