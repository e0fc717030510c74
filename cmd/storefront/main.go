package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fjod/go_boutique/internal/auth"
	"github.com/fjod/go_boutique/internal/cart"
	"github.com/fjod/go_boutique/internal/catalog"
	"github.com/fjod/go_boutique/internal/chat"
	h "github.com/fjod/go_boutique/internal/http"
)

type Config struct {
	HTTPPort        string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string // optional, empty disables the catalog cache
	RedisPassword   string
	GeminiAPIKey    string
	SessionSecret   string
	SecureCookies   bool
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./boutique.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/catalog/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret"),
		SecureCookies:   getEnv("SECURE_COOKIES", "") == "true",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Catalog storage
	repo, err := catalog.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("catalog database ready", zap.String("path", cfg.DBPath))

	// Optional redis cache for catalog reads
	var cache catalog.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		cache = catalog.NewRedisCache(redisClient)
	}

	catalogService := catalog.NewService(repo, cache, log)
	cartStore := cart.NewCookieStore(cfg.SecureCookies, log)
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookies)
	gemini := chat.NewGeminiClient(cfg.GeminiAPIKey, log)

	cartHandler := h.NewCartHandler(catalogService, cartStore, log)
	catalogHandler := h.NewCatalogHandler(catalogService, log)
	adminHandler := h.NewAdminHandler(catalogService, log)
	authHandler := h.NewAuthHandler(sessions, log)
	chatHandler := h.NewChatHandler(gemini, catalogService, log)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{product_id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(sessions.RequireRole(auth.RoleAdmin, auth.RoleManager))
				r.Get("/products", adminHandler.ListProducts)
				r.Get("/products/{product_id}", adminHandler.GetProduct)
				r.Put("/products/{product_id}", adminHandler.UpdateProduct)
			})
			r.Group(func(r chi.Router) {
				r.Use(sessions.RequireRole(auth.RoleAdmin))
				r.Post("/products", adminHandler.CreateProduct)
				r.Delete("/products/{product_id}", adminHandler.DeleteProduct)
			})
		})
	})

	r.Post("/api/chat/send", chatHandler.Send)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
