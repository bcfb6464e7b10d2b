// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"hoaxify/internal/blob"
	"hoaxify/internal/cache"
	"hoaxify/internal/config"
	"hoaxify/internal/database"
	"hoaxify/internal/email"
	"hoaxify/internal/middleware"
	"hoaxify/internal/models"
	"hoaxify/internal/repository"
	"hoaxify/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo       repository.UserRepository
	hoaxRepo       repository.HoaxRepository
	attachmentRepo repository.AttachmentRepository
	tokenRepo      repository.TokenRepository
	blobs          *blob.Store

	tokenService      *service.TokenService
	attachmentService *service.AttachmentService
	userService       *service.UserService
	hoaxService       *service.HoaxService
	cascadeService    *service.CascadeService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient, email.NewLogSender(middleware.Logger))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mail email.Sender) (*Server, error) {
	blobs, err := blob.NewStore(cfg.UploadDir, cfg.ProfileDir, cfg.AttachmentDir)
	if err != nil {
		return nil, fmt.Errorf("blob store init failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	hoaxRepo := repository.NewHoaxRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	prom := middleware.InitMetrics("hoaxify-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		hoaxRepo:       hoaxRepo,
		attachmentRepo: attachmentRepo,
		tokenRepo:      tokenRepo,
		blobs:          blobs,
	}

	server.tokenService = service.NewTokenService(tokenRepo)
	server.attachmentService = service.NewAttachmentService(
		attachmentRepo, blobs, int64(cfg.AttachmentMaxSizeMB)*1024*1024)
	server.userService = service.NewUserService(
		db, userRepo, server.tokenService, blobs, mail,
		int64(cfg.ProfileImageMaxSizeMB)*1024*1024)
	server.hoaxService = service.NewHoaxService(hoaxRepo, userRepo, server.attachmentService)
	server.cascadeService = service.NewCascadeService(
		userRepo, hoaxRepo, server.tokenService, server.attachmentService, blobs)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry spans; sets the trace ID local picked up below
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID, User ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Every request carries its user identity, if any, from here on. Routes
	// opt into enforcement via middleware.AuthRequired.
	app.Use(middleware.TokenAuthentication(s.tokenService))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/1.0")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Hoaxify Backend Metrics Dashboard",
	}))

	// Account lifecycle
	api.Post("/users", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	api.Post("/users/token/:token", s.Activate)

	// Authentication
	api.Post("/auth", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.Logout)

	// Password reset
	api.Post("/user/password", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "password_reset"), s.PasswordResetRequest)
	api.Put("/user/password", s.PasswordUpdate)

	// User routes. Specific /:id/:resource routes BEFORE generic /:id route.
	api.Get("/users", s.GetUsers)
	api.Get("/users/:id/hoaxes", s.GetUserHoaxes)
	api.Get("/users/:id", s.GetUser)
	api.Put("/users/:id", middleware.AuthRequired(), s.UpdateUser)
	api.Delete("/users/:id", middleware.AuthRequired(), s.DeleteUser)

	// Hoax routes
	api.Get("/hoaxes", s.GetHoaxes)
	api.Post("/hoaxes", middleware.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_hoax"), s.CreateHoax)
	api.Delete("/hoaxes/:id", middleware.AuthRequired(), s.DeleteHoax)

	// Attachment upload happens before the hoax it belongs to exists; the
	// orphan sweep reclaims uploads that never get bound.
	api.Post("/hoaxes/attachments", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_attachment"), s.UploadAttachment)

	// Stored binaries
	app.Get("/images/:key", s.ServeProfileImage)
	app.Get("/attachments/:key", s.ServeAttachment)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is a soft dependency: caching and rate limiting degrade without
	// it, so its absence is reported but does not fail readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// StartBackgroundJobs launches the token and orphan-attachment sweeps. They
// run until the server shuts down.
func (s *Server) StartBackgroundJobs(ctx context.Context) {
	s.tokenService.StartCleanup(ctx)
	s.attachmentService.StartOrphanSweep(ctx)
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Hoaxify API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.StartBackgroundJobs(ctx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the background sweeps
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
