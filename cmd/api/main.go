package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"evalyn/hr-agent/internal/config"
	"evalyn/hr-agent/internal/handlers"
	"evalyn/hr-agent/internal/repositories"
	"evalyn/hr-agent/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	blobService := services.NewBlobService(cfg.Blob.BaseURL, cfg.Blob.Token)
	extractorService := services.NewExtractorService(blobService)
	log.Println("✅ Storage services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize domain services
	scorerService := services.NewScorerService(
		geminiService,
		cfg.Screening.RetryMaxAttempts,
		cfg.Screening.RetryBaseDelay,
	)
	screenerService := services.NewScreenerService(
		jobRepo,
		appRepo,
		extractorService,
		scorerService,
		cfg.Screening.TopN,
		cfg.Screening.MinimumScore,
	)
	emailService := services.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.Company.Name,
		cfg.Company.CareersPageURL,
	)
	if !emailService.Configured() {
		log.Println("⚠️ SMTP credentials missing. Emails will be logged, not sent.")
	}
	schedulerService := services.NewSchedulerService(jobRepo, appRepo, interviewRepo, emailService)
	workflowService := services.NewWorkflowService(
		jobRepo,
		appRepo,
		screenerService,
		emailService,
		schedulerService,
		cfg.Interview.DurationMinutes,
		cfg.Interview.GapMinutes,
		cfg.Interview.DefaultSSEName,
		cfg.Interview.DefaultSSEEmail,
	)
	skillGapService := services.NewSkillGapService(geminiService)
	biasService := services.NewBiasService(scorerService)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	jobHandler := handlers.NewJobHandler(jobRepo)
	applicationHandler := handlers.NewApplicationHandler(
		jobRepo,
		appRepo,
		blobService,
		storageService,
		extractorService,
		screenerService,
		emailService,
		skillGapService,
		biasService,
		cfg.Storage.MaxFileSize,
	)
	interviewHandler := handlers.NewInterviewHandler(
		interviewRepo,
		schedulerService,
		cfg.Interview.DurationMinutes,
		cfg.Interview.GapMinutes,
		cfg.Interview.DefaultSSEName,
		cfg.Interview.DefaultSSEEmail,
	)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR Recruitment Agent API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		dbHealthy := false
		if sqlDB, err := db.DB(); err == nil {
			dbHealthy = sqlDB.Ping() == nil
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"database": dbHealthy,
			"credentials": fiber.Map{
				"gemini": cfg.Gemini.APIKey != "",
				"smtp":   emailService.Configured(),
				"blob":   blobService.Configured(),
			},
		})
	})

	// Job management
	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/public/careers", jobHandler.HandleListPublished)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Put("/jobs/:id", jobHandler.HandleUpdate)
	api.Delete("/jobs/:id", jobHandler.HandleDelete)
	api.Post("/jobs/:id/publish", jobHandler.HandlePublish)
	api.Post("/jobs/:id/unpublish", jobHandler.HandleUnpublish)

	// Candidate applications
	api.Post("/applications/apply", applicationHandler.HandleApply)
	api.Get("/applications/job/:jobId", applicationHandler.HandleListByJob)
	api.Get("/applications/:id", applicationHandler.HandleGet)
	api.Put("/applications/:id/status", applicationHandler.HandleUpdateStatus)
	api.Get("/applications/:id/skill-gap", applicationHandler.HandleSkillGap)
	api.Post("/applications/:id/bias-check", applicationHandler.HandleBiasCheck)

	// Screening and notification
	api.Post("/applications/job/:jobId/screen", applicationHandler.HandleScreen)
	api.Post("/applications/job/:jobId/notify-shortlisted", applicationHandler.HandleNotifyShortlisted)

	// Interviews
	api.Post("/interviews", interviewHandler.HandleSchedule)
	api.Post("/interviews/bulk-schedule", interviewHandler.HandleBulkSchedule)
	api.Put("/interviews/:id/reschedule", interviewHandler.HandleReschedule)
	api.Put("/interviews/:id/complete", interviewHandler.HandleComplete)
	api.Get("/interviews/job/:jobId", interviewHandler.HandleListByJob)

	// One-call pipeline
	api.Post("/hr-automation/run-workflow", workflowHandler.HandleRun)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HR Recruitment Agent API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs",
				"GET /api/v1/jobs/public/careers",
				"POST /api/v1/applications/apply",
				"POST /api/v1/applications/job/:jobId/screen",
				"POST /api/v1/applications/job/:jobId/notify-shortlisted",
				"POST /api/v1/interviews/bulk-schedule",
				"POST /api/v1/hr-automation/run-workflow",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
