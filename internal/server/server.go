package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/encuentro-api/internal/auth"
	"github.com/gravadigital/encuentro-api/internal/config"
	"github.com/gravadigital/encuentro-api/internal/handlers"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/metrics"
	"github.com/gravadigital/encuentro-api/internal/middleware"
	"github.com/gravadigital/encuentro-api/internal/services"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
	"github.com/gravadigital/encuentro-api/internal/uploader"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	repos      *postgres.Container
	objects    objectstore.Store
}

// New creates a new server instance
func New(cfg *config.Config, repos *postgres.Container, objects objectstore.Store) *Server {
	return &Server{
		config:  cfg,
		repos:   repos,
		objects: objects,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router, err := s.setupRouter()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() (*gin.Engine, error) {
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Authentication building blocks. Policy and token service are built
	// once here and only read afterwards.
	policy, err := auth.NewPolicy(auth.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("invalid exemption policy: %w", err)
	}

	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	googleVerifier := auth.NewGoogleTokenVerifier(s.config.Auth.GoogleClientID)
	verifier := auth.NewIdentityVerifier(s.repos.Users(), googleVerifier)

	m := metrics.New()

	uploads := uploader.New(s.objects, uploader.Limits{
		MaxFiles:    s.config.Upload.MaxFiles,
		MaxFileSize: s.config.Upload.MaxFileSize,
	}, s.config.Upload.Timeout).WithMetrics(m)

	eventService := services.NewEventService(s.repos.Events(), uploads)
	analyzer := services.NewHTTPAnalyzer(s.config.Sentiment.APIURL, s.config.Sentiment.APIKey)
	sentimentService := services.NewSentimentService(s.repos.Sentiments(), analyzer)

	authHandler := handlers.NewAuthHandler(verifier, tokens, s.repos.Users())
	userHandler := handlers.NewUserHandler(s.repos.Users(), s.repos.Courses())
	eventHandler := handlers.NewEventHandler(eventService)
	courseHandler := handlers.NewCourseHandler(s.repos.Courses())
	sentimentHandler := handlers.NewSentimentHandler(sentimentService)

	router := gin.New()
	router.Use(middleware.RequestLog())
	router.Use(gin.Recovery())
	router.Use(m.Middleware())

	corsConfig := cors.DefaultConfig()
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Every request passes the gateway. Exempt routes skip token
	// verification entirely.
	router.Use(middleware.AuthGateway(policy, tokens))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Encuentro API is running", "status": "healthy"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := s.repos.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", m.Handler())

	s.setupAPIRoutes(router, authHandler, userHandler, eventHandler, courseHandler, sentimentHandler)

	return router, nil
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	courseHandler *handlers.CourseHandler,
	sentimentHandler *handlers.SentimentHandler,
) {
	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/login", authHandler.Login)
			users.POST("/register", authHandler.Register)
			users.POST("/google_login", authHandler.GoogleLogin)
			users.GET("/me", authHandler.Me)
			users.GET("", userHandler.GetAllUsers)
			users.GET("/get/count", userHandler.GetUserCount)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetAllEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
		}

		course := api.Group("/course")
		{
			course.POST("", courseHandler.CreateCourse)
			course.GET("", courseHandler.GetAllCourses)
			course.GET("/:id", courseHandler.GetCourse)
		}

		sentiments := api.Group("/sentiments")
		{
			sentiments.POST("/analyze", sentimentHandler.Analyze)
			sentiments.GET("", sentimentHandler.GetAllSentiments)
		}
	}
}
