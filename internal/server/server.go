package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"karma-light/internal/cart"
	"karma-light/internal/config"
	"karma-light/internal/delivery"
	"karma-light/internal/mail"
	custommiddleware "karma-light/internal/middleware"
	"karma-light/internal/notify"
	"karma-light/internal/repository"
	"karma-light/internal/service"
	"karma-light/internal/session"
	"karma-light/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware([]string{cfg.Mail.SiteURL}, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LocaleMiddleware)
	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 120,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Session cart storage and reconciliation
	sessionStore := session.NewRedisStore(redisClient)
	reconciler := cart.NewReconciler(productRepo)

	// Notification pipeline
	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	mailer, err := mail.NewSMTPMailer(cfg.SMTP, cfg.Mail.From)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	dispatcher := notify.NewDispatcher(renderer, mailer, cfg.Mail, logger)

	// Delivery-point lookup
	deliveryClient := delivery.NewClient(cfg.NovaPoshta, logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	checkoutService := service.NewCheckoutService(reconciler, orderRepo, dispatcher, logger)
	authService := service.NewAuthService(
		adminRepo,
		refreshTokenRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(sessionStore, reconciler, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, sessionStore, logger)
	deliveryHandler := transport.NewDeliveryHandler(deliveryClient, logger)
	adminHandler := transport.NewAdminHandler(authService, catalogService, cfg.JWT.Secret, logger)

	// Register routes
	router.Route("/api", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
		cartHandler.RegisterRoutes(r)
		checkoutHandler.RegisterRoutes(r)
		deliveryHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
