package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careline/config"
	"careline/cron"
	"careline/database"
	"careline/database/repository/hospital"
	"careline/handlers"
	"careline/middleware"
	"careline/routes"
	"careline/services/agents"
	"careline/services/dispatch"
	"careline/services/llm"
	"careline/services/router"
	"careline/services/session"
	"careline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Backends. Mongo and Redis are both optional: without Mongo the seeded
	// in-memory directory serves slots and policies, and without Redis
	// sessions live in process memory and reminders are disabled.
	var repo hospital.Repo
	if config.AppConfig.DatabaseURL != "" {
		database.InitDB()
		mongoRepo := hospital.NewMongoRepo()
		if err := mongoRepo.EnsureSeed(context.Background()); err != nil {
			logger.Sugar().Fatalf("main: failed to seed hospital directory: %v", err)
		}
		repo = mongoRepo
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory hospital directory")
		repo = hospital.NewMemoryRepo()
	}

	var store session.Store
	var reminders agents.ReminderScheduler
	if config.AppConfig.RedisAddr != "" {
		utils.InitSessionCache()
		store = session.NewRedisStore(utils.GetSessionCacheClient(), config.SessionTTL())
		reminders = cron.NewReminderClient()
		cron.InitReminderWorker()
	} else {
		logger.Warn("REDIS_ADDR not set, sessions are in-memory and reminders disabled")
		store = session.NewMemoryStore()
	}

	// LLM client. Without an API key everything degrades to rule-based
	// routing and canned replies.
	var llmClient llm.Client
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(
			config.AppConfig.GeminiAPIKey,
			config.AppConfig.GeminiModel,
			config.LLMTimeout(),
		)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
		}
		llmClient = llm.NewBreakerClient(gemini)
	} else {
		logger.Warn("GEMINI_API_KEY not set, running with rule-based routing only")
		llmClient = llm.Disabled{}
	}

	utils.StartHealthMonitor(utils.SessionCacheClient, database.MongoClient)

	// Conversation layer.
	classifier := router.NewClassifier(llmClient, logger)
	greeting := agents.NewGreetingAgent(llmClient, logger)
	appointment := agents.NewAppointmentAgent(llmClient, repo, reminders, logger)
	dispatcher := dispatch.NewService(store, classifier, greeting, []agents.Agent{
		appointment,
		agents.NewHRAgent(llmClient, repo, logger),
		agents.NewClosingAgent(llmClient, logger),
		agents.NewFallbackAgent(llmClient, appointment, logger),
	}, logger)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.ErrorHandler())
	engine.Use(gin.Logger())
	engine.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		ChatHandler:            handlers.ChatHandler(dispatcher),
		AvailabilityHandler:    handlers.AvailabilityHandler(repo),
		BookAppointmentHandler: handlers.BookAppointmentHandler(repo, reminders),
		DoctorsHandler:         handlers.DoctorsHandler(repo),
		HRPoliciesHandler:      handlers.HRPoliciesHandler(repo),
		CompanyInfoHandler:     handlers.CompanyInfoHandler(repo),
		GetSessionHandler:      handlers.GetSessionHandler(store),
		DeleteSessionHandler:   handlers.DeleteSessionHandler(store),
	}
	routes.RegisterRoutes(engine, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: engine,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Info("server stopped gracefully")
}
