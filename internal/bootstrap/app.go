// Package bootstrap loads configuration and assembles the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/tejasmali6131/TeamRetro-sub000/internal/handler/http"
	wsHandler "github.com/tejasmali6131/TeamRetro-sub000/internal/handler/websocket"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/hub"
	gormpersistence "github.com/tejasmali6131/TeamRetro-sub000/internal/infra/persistence/gorm"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/infra/persistence/memory"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/infra/setup"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/middleware"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/namegen"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/repository"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/tasks"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/worker"
)

// Config holds the environment-driven settings. MySQL and Redis are
// both optional: without DB_HOST meetings live in memory, without
// REDIS_ADDR rate limiting and the retention worker stay off.
type Config struct {
	ServerPort string
	LogLevel   string
	AppEnv     string
	CORSOrigin string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitMax    int
	RateLimitWindow time.Duration

	RetentionMaxAge   time.Duration
	RetentionSchedule string
}

// LoadConfig reads the environment, with .env as a convenience.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),
		CORSOrigin:    os.Getenv("CORS_ALLOWED_ORIGIN"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RateLimitMax:      100,
		RateLimitWindow:   1 * time.Second,
		RetentionMaxAge:   30 * 24 * time.Hour,
		RetentionSchedule: "@every 1h",
	}
	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitMax = n
		}
	}
	if v := os.Getenv("MEETING_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RetentionMaxAge = d
		} else {
			logrus.Warnf("Invalid MEETING_RETENTION '%s', keeping default", v)
		}
	}
	if v := os.Getenv("RETENTION_SCHEDULE"); v != "" {
		cfg.RetentionSchedule = v
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "3306"
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// App wires every component of the server together.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	Worker      *worker.Server
	Hub         *hub.Hub
	HTTPServer  *http.Server

	redisClientOpt asynq.RedisClientOpt
	scheduler      *asynq.Scheduler
}

// NewApp builds the application from configuration.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.StandardLogger()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	app := &App{Config: cfg, Log: log}

	// Persistence: MySQL when configured, in-memory otherwise.
	var meetingRepo repository.MeetingRepository
	if cfg.DBHost != "" {
		db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("failed to init DB: %w", err)
		}
		if err := setup.MigrateDB(db); err != nil {
			return nil, fmt.Errorf("failed to migrate DB: %w", err)
		}
		app.DB = db
		meetingRepo = gormpersistence.NewMeetingRepository(db)
		log.Info("Database initialized, meetings are durable")
	} else {
		meetingRepo = memory.NewMeetingRepository()
		log.Info("No DB_HOST configured, meetings are in-memory")
	}

	if cfg.RedisAddr != "" {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.redisClientOpt = asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(app.redisClientOpt)
		log.Info("Redis initialized, rate limiting and retention worker enabled")
	} else {
		log.Info("No REDIS_ADDR configured, rate limiting and retention worker disabled")
	}

	templateService := service.NewTemplateService()
	meetingService := service.NewMeetingService(meetingRepo, templateService)
	sessionService := service.NewSessionService()
	allocator := namegen.NewAllocator()

	app.Hub = hub.NewHub(sessionService, meetingService, allocator, hub.DefaultTimeouts())

	meetingHandler := httpHandler.NewMeetingHandler(meetingService)
	templateHandler := httpHandler.NewTemplateHandler(templateService)
	socketHandler := wsHandler.NewHandler(app.Hub, wsHandler.DefaultBotPolicy)

	if app.RedisClient != nil {
		app.Worker = worker.NewServer(app.redisClientOpt, meetingService, cfg.RetentionMaxAge)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSOrigin))

	api := router.Group("/api")
	if app.RedisClient != nil {
		api.Use(middleware.RateLimit(app.RedisClient, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	meetingRoutes := api.Group("/meetings")
	{
		meetingRoutes.POST("", meetingHandler.Create)
		meetingRoutes.GET("", meetingHandler.List)
		meetingRoutes.GET("/:meetingId", meetingHandler.Get)
		meetingRoutes.DELETE("/:meetingId", meetingHandler.Delete)
		meetingRoutes.GET("/:meetingId/participants", meetingHandler.Participants)
	}
	templateRoutes := api.Group("/templates")
	{
		templateRoutes.POST("", templateHandler.Create)
		templateRoutes.GET("", templateHandler.List)
		templateRoutes.GET("/:templateId", templateHandler.Get)
		templateRoutes.DELETE("/:templateId", templateHandler.Delete)
	}
	router.GET("/ws/meeting/:meetingId", socketHandler.HandleConnection)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	app.HTTPServer = &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	log.Info("Application assembled successfully")
	return app, nil
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Start launches the worker, the scheduler and the HTTP server.
func (a *App) Start() {
	if a.Worker != nil {
		go a.Worker.Start()
		a.registerPeriodicTasks()
	}

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})
	a.scheduler = scheduler

	payload, err := tasks.NewMeetingRetentionPayload(a.Config.RetentionMaxAge)
	if err != nil {
		a.Log.Errorf("Failed to create retention task payload: %v", err)
		return
	}
	task := asynq.NewTask(tasks.TypeMeetingRetention, payload)
	entryID, err := scheduler.Register(a.Config.RetentionSchedule, task, asynq.Queue("low"))
	if err != nil {
		a.Log.Errorf("Could not register retention task: %v", err)
	} else {
		a.Log.Infof("Retention task registered with schedule '%s' (EntryID: %s)",
			a.Config.RetentionSchedule, entryID)
	}

	go func() {
		if err := scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			a.Log.Errorf("Scheduler stopped with error: %v", err)
		}
	}()
}

// Shutdown stops every component gracefully.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("HTTP server shutdown failed: %v", err)
	}

	a.Hub.Shutdown()

	if a.scheduler != nil {
		a.scheduler.Shutdown()
	}
	if a.Worker != nil {
		a.Worker.Shutdown()
	}
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Asynq client close failed: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Redis client close failed: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	a.Log.Info("Shutdown complete")
}
