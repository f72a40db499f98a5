package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"homework/internal/auth"
	"homework/internal/config"
	"homework/internal/handler"
	"homework/internal/homework"
	"homework/internal/httpmiddleware"
	"homework/internal/logging"
	"homework/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg config.App, log *logging.Logger) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	redisClient := store.NewRedis(cfg.RedisAddr)
	sessions := store.NewSessions(redisClient, "")

	repo := homework.NewRepository(db.Client)

	seed := make([]homework.User, 0, len(cfg.SeedUsers))
	for _, u := range cfg.SeedUsers {
		seed = append(seed, homework.User{
			Username: u.Username,
			Name:     u.Name,
			Role:     homework.Role(u.Role),
			Class:    u.Class,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.SeedUsers(ctx, seed); err != nil {
		cancel()
		return err
	}
	cancel()
	log.Info("users seeded", zap.Int("count", len(seed)))

	svc := homework.NewService(repo)
	h := handler.New(svc, sessions, cfg, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS(cfg.AllowedOrigins))
	r.Use(securityHeaders())

	limiter := httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/login", limiter.Middleware(httpmiddleware.IPKey), h.Login)

	authed := r.Group("/v1", auth.RequireSession(cfg.JWTSigningKey, cfg.JWTIssuer, sessions))
	authed.Use(limiter.Middleware(httpmiddleware.UserKey))
	authed.POST("/logout", h.Logout)
	authed.GET("/views/student/:userID", h.StudentView)

	student := authed.Group("", auth.RequireRole(string(homework.RoleStudent)))
	student.PUT("/completions/:assignmentID", h.SetCompletion)

	admin := authed.Group("", auth.RequireRole(string(homework.RoleAdmin)))
	admin.POST("/assignments", h.CreateAssignment)
	admin.GET("/assignments", h.ListAssignments)
	admin.PATCH("/assignments/:id/publish", h.TogglePublish)
	admin.DELETE("/assignments/:id", h.DeleteAssignment)
	admin.GET("/views/admin", h.AdminRoster)
	admin.GET("/users", h.ListUsers)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
	return nil
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
