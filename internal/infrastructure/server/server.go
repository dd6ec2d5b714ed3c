package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/Qu4nh/AI-Life-Coach/internal/adapters/http"
	"github.com/Qu4nh/AI-Life-Coach/internal/adapters/repository"
	"github.com/Qu4nh/AI-Life-Coach/internal/application/services"
	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/config"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/database"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
	"github.com/Qu4nh/AI-Life-Coach/internal/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB

	roadmapService ports.RoadmapService
	userRepo       ports.UserRepository
	authRepo       ports.AuthRepository
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. The redis client may be nil when redis
// is disabled; the generation quota then lives in process memory.
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger, llmClient llm.Client, redisClient *redis.Client) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	location := cfg.App.Location()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	authRepo := repository.NewAuthRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	eventRepo := repository.NewEventRepository(db.DB)
	logRepo := repository.NewDailyLogRepository(db.DB)

	// The per-user generation quota. Redis keeps it shared across instances.
	var limiter ratelimit.Limiter
	var cacheRepo ports.CacheRepository
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, "quota:generate", cfg.Planner.GenerateLimit, cfg.Planner.GenerateWindow)
		cacheRepo = repository.NewRedisRepository(redisClient)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.Planner.GenerateLimit, cfg.Planner.GenerateWindow)
	}

	extractor := planning.NewExtractor(llmClient, cfg.Gemini.Temperature)

	// Initialize services
	authService := services.NewAuthService(userRepo, authRepo, cfg.JWT, appLogger)
	chatService := services.NewChatService(llmClient, appLogger)
	roadmapService := services.NewRoadmapService(goalRepo, taskRepo, eventRepo, logRepo, extractor, limiter, appLogger, location)
	taskService := services.NewTaskService(taskRepo, goalRepo, appLogger, location)
	goalService := services.NewGoalService(goalRepo, appLogger)
	eventService := services.NewEventService(eventRepo, appLogger, location)
	checkinService := services.NewCheckinService(logRepo, cacheRepo, appLogger, location)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	roadmapHandler := httpHandlers.NewRoadmapHandler(roadmapService, chatService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	calendarHandler := httpHandlers.NewCalendarHandler(eventService, goalService, appLogger)
	checkinHandler := httpHandlers.NewCheckinHandler(checkinService, appLogger)

	server := &Server{
		echo:           e,
		config:         cfg,
		logger:         appLogger,
		db:             db,
		roadmapService: roadmapService,
		userRepo:       userRepo,
		authRepo:       authRepo,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, roadmapHandler, taskHandler, calendarHandler, checkinHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// RoadmapService exposes the roadmap service for the auto-replan scheduler.
func (s *Server) RoadmapService() ports.RoadmapService {
	return s.roadmapService
}

// UserRepository exposes the user repository for the auto-replan scheduler.
func (s *Server) UserRepository() ports.UserRepository {
	return s.userRepo
}

// AuthRepository exposes the auth repository for scheduled token cleanup.
func (s *Server) AuthRepository() ports.AuthRepository {
	return s.authRepo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Coarse per-IP limiter guarding the whole API. The per-user generation
	// quota is enforced separately inside the roadmap service.
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.config.Security.RateLimitRequests),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())

	// Generation calls can take most of a minute, so the timeout budget
	// follows the write timeout rather than a fixed 30s.
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: s.config.Server.WriteTimeout,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	authHandler *httpHandlers.AuthHandler,
	roadmapHandler *httpHandlers.RoadmapHandler,
	taskHandler *httpHandlers.TaskHandler,
	calendarHandler *httpHandlers.CalendarHandler,
	checkinHandler *httpHandlers.CheckinHandler,
	authService *services.AuthService,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Auth routes (public)
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.RefreshToken)
	authGroup.POST("/logout", authHandler.Logout, s.authMiddleware(authService))

	// Onboarding and roadmap routes (authenticated)
	roadmapGroup := v1.Group("/roadmap", s.authMiddleware(authService))
	roadmapGroup.POST("/chat", roadmapHandler.Chat)
	roadmapGroup.POST("/generate", roadmapHandler.Generate)
	roadmapGroup.POST("/regenerate", roadmapHandler.Regenerate)

	// Goal routes (authenticated)
	goalGroup := v1.Group("/goals", s.authMiddleware(authService))
	goalGroup.GET("", calendarHandler.ListGoals)
	goalGroup.DELETE("/:id", calendarHandler.DeleteGoal)

	// Task routes (authenticated)
	taskGroup := v1.Group("/tasks", s.authMiddleware(authService))
	taskGroup.GET("", taskHandler.ListTasks)
	taskGroup.POST("", taskHandler.QuickAdd)
	taskGroup.PUT("/:id", taskHandler.UpdateTask)
	taskGroup.DELETE("/:id", taskHandler.DeleteTask)
	taskGroup.POST("/:id/complete", taskHandler.CompleteTask)
	taskGroup.POST("/:id/skip", taskHandler.SkipTask)
	taskGroup.POST("/:id/tomorrow", taskHandler.RescheduleTask)

	// Calendar event routes (authenticated)
	eventGroup := v1.Group("/events", s.authMiddleware(authService))
	eventGroup.GET("", calendarHandler.ListEvents)
	eventGroup.POST("", calendarHandler.CreateEvent)
	eventGroup.PUT("/:id", calendarHandler.UpdateEvent)
	eventGroup.DELETE("/:id", calendarHandler.DeleteEvent)

	// Check-in routes (authenticated)
	checkinGroup := v1.Group("/checkin", s.authMiddleware(authService))
	checkinGroup.POST("", checkinHandler.CheckIn)
	checkinGroup.GET("/today", checkinHandler.Today)
	checkinGroup.GET("/trend", checkinHandler.EnergyTrend)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	prometheus.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// authMiddleware validates JWT tokens
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				s.logger.Warnw("Invalid token", "error", err, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user", claims.UserID)
			c.Set("user_email", claims.Email)

			return next(c)
		}
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler maps service errors onto HTTP status codes.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		var msg interface{} = map[string]string{"message": http.StatusText(code)}

		var httpErr *echo.HTTPError
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			msg = map[string]interface{}{"message": httpErr.Message}
			if httpErr.Internal != nil {
				err = fmt.Errorf("%v, %v", err, httpErr.Internal)
			}
		case errors.As(err, &validationErrs):
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": validationErrs.Error()}
		case errors.Is(err, entities.ErrInvalidInput):
			code = http.StatusBadRequest
			msg = map[string]string{"message": err.Error()}
		case errors.Is(err, entities.ErrUnauthenticated):
			code = http.StatusUnauthorized
			msg = map[string]string{"message": "unauthenticated"}
		case errors.Is(err, entities.ErrUserNotFound),
			errors.Is(err, entities.ErrGoalNotFound),
			errors.Is(err, entities.ErrTaskNotFound),
			errors.Is(err, entities.ErrEventNotFound),
			errors.Is(err, entities.ErrDailyLogNotFound),
			errors.Is(err, entities.ErrNoActiveGoal):
			code = http.StatusNotFound
			msg = map[string]string{"message": err.Error()}
		case errors.Is(err, entities.ErrRateLimited):
			code = http.StatusTooManyRequests
			msg = map[string]string{"message": "Bạn đã dùng hết lượt tạo lộ trình, thử lại sau 15 phút nhé."}
		case errors.Is(err, entities.ErrParseFailure):
			code = http.StatusBadGateway
			msg = map[string]string{"message": "AI Coach trả lời không hợp lệ, bạn thử lại nhé."}
		case errors.Is(err, entities.ErrUpstreamUnavailable):
			code = http.StatusServiceUnavailable
			msg = map[string]string{"message": "AI Coach đang quá tải, bạn thử lại sau ít phút nhé."}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			var writeErr error
			if c.Request().Method == echo.HEAD {
				writeErr = c.NoContent(code)
			} else {
				writeErr = c.JSON(code, msg)
			}
			if writeErr != nil {
				logger.Errorw("Error sending response", "error", writeErr)
			}
		}
	}
}
