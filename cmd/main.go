package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Nicolas78240/Arbitr/internal/config"
	"github.com/Nicolas78240/Arbitr/internal/domain"
	"github.com/Nicolas78240/Arbitr/internal/handler"
	"github.com/Nicolas78240/Arbitr/internal/handler/middleware"
	"github.com/Nicolas78240/Arbitr/internal/repository/postgres"
	"github.com/Nicolas78240/Arbitr/internal/service"
	"github.com/Nicolas78240/Arbitr/pkg/jwt"
	"github.com/Nicolas78240/Arbitr/pkg/ratelimit"
	"github.com/Nicolas78240/Arbitr/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db)
	evaluatorRepo := postgres.NewEvaluatorRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	// Initialize JWT signer
	signer, err := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.Issuer)
	if err != nil {
		log.Fatalf("Failed to initialize token signer: %v", err)
	}

	// Initialize token service
	tokenService := service.NewTokenService(
		signer,
		refreshTokenRepo,
		evaluatorRepo,
		teamRepo,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Register credential strategies
	registry := service.NewStrategyRegistry()
	registry.Register(service.NewAdminCodeStrategy(sessionRepo))
	registry.Register(service.NewEvaluatorCodeStrategy(sessionRepo, evaluatorRepo))
	registry.Register(service.NewTeamCodeStrategy(sessionRepo, teamRepo))
	log.Println("✓ Auth strategies registered")

	// Initialize login rate limiter
	loginLimiter := ratelimit.NewLimiter(redisClient, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(registry, tokenService, validate)
	sessionHandler := handler.NewSessionHandler(sessionRepo, validate, cfg.Auth.CodeLength)
	rosterHandler := handler.NewRosterHandler(evaluatorRepo, teamRepo, validate, cfg.Auth.CodeLength)
	healthHandler := handler.NewHealthHandler(db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Arbitr Auth v1.0",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware())

	// Setup routes
	handler.SetupRoutes(
		app,
		authHandler,
		sessionHandler,
		rosterHandler,
		healthHandler,
		middleware.Authenticate(signer),
		middleware.RequireRole(domain.RoleAdmin),
		middleware.LoginRateLimit(loginLimiter),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Periodically sweep expired refresh tokens
	go sweepExpiredTokens(ctx, tokenService, cfg.Auth.SweepInterval)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// sweepExpiredTokens deletes expired refresh token rows on a fixed interval
func sweepExpiredTokens(ctx context.Context, tokens *service.TokenService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			removed, err := tokens.SweepExpired(sweepCtx)
			cancel()
			if err != nil {
				log.Printf("[SWEEP] Failed to delete expired refresh tokens: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[SWEEP] Removed %d expired refresh tokens", removed)
			}
		}
	}
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// customErrorHandler answers anything the handlers re-raised. AuthErrors are
// serialized with their own status; everything else is a logged 500.
func customErrorHandler(c *fiber.Ctx, err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return c.Status(authErr.StatusCode).JSON(authErr)
	}

	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	log.Printf("Error handling request [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error":      "INTERNAL",
		"message":    message,
		"statusCode": code,
	})
}
