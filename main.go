package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/routes"
	"restaurant-ordering-api/services"
	"restaurant-ordering-api/session"
	"restaurant-ordering-api/uploads"
)

// formOverheadBytes leaves room for the text fields next to the largest
// accepted image.
const formOverheadBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("restaurant-ordering", "info").Error("startup", "", "invalid configuration", err)
		os.Exit(1)
	}
	log := logger.New("restaurant-ordering", cfg.LogLevel)

	gin.SetMode(cfg.GinMode)
	if err := middleware.RegisterValidators(); err != nil {
		log.Error("startup", "", "failed to register validators", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Error("startup", "", "failed to open database", err)
		os.Exit(1)
	}
	log.Info("startup", "", "database ready", slog.String("driver", cfg.DBDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		rdb, err := config.OpenRedis(ctx, cfg)
		if err != nil {
			log.Error("startup", "", "failed to connect redis", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.Policy(), cfg.CartTTL)
	default:
		sessions = session.NewMemoryStore(cfg.Policy(), cfg.CartTTL)
	}

	catalog := repository.NewCatalogRepository(db)
	orders := repository.NewOrderRepository(db)
	tokens := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	h := &handlers.Handlers{
		Auth:        services.NewAuthService(repository.NewUserRepository(db)),
		Carts:       services.NewCartService(catalog, sessions, log),
		Checkouts:   services.NewCheckoutService(sessions, orders, log),
		Restaurants: services.NewRestaurantService(catalog, repository.NewRestaurantRepository(db), log),
		Orders:      services.NewOrderService(catalog, orders),
		Reviews:     services.NewReviewService(catalog, repository.NewCommentRepository(db)),
		Catalog:     catalog,
		Tokens:      tokens,
		Images:      uploads.NewSaver(cfg.UploadDir, cfg.MaxUploadBytes),
		Log:         log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader},
		ExposeHeaders: []string{middleware.SessionHeader, middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	routes.SetupRoutes(r, h, routes.Options{
		Tokens:        tokens,
		SessionMaxAge: int(cfg.CartTTL.Seconds()),
		UploadDir:     cfg.UploadDir,
		MaxBodyBytes:  cfg.MaxUploadBytes + formOverheadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("startup", "", "server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("startup", "", "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown", "", "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "", "forced shutdown", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
