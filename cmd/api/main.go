package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/tablefork/backend/config"
	"github.com/pageza/tablefork/backend/internal/api"
	"github.com/pageza/tablefork/backend/internal/database"
	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/middleware"
	"github.com/pageza/tablefork/backend/internal/router"
	"github.com/pageza/tablefork/backend/internal/server"
	"github.com/pageza/tablefork/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to migrate database", "error", err)
	}

	// Redis only backs the write rate limiter; the API stays up without it.
	var writeLimiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg, zl); err != nil {
		zl.Warn("redis unavailable, recipe writes are not rate limited", "error", err)
	} else {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, zl)
	userService := service.NewUserService(db, zl)
	recipeService := service.NewRecipeService(db, zl)
	membershipService := service.NewMembershipService(db, zl)
	shoppingListService := service.NewShoppingListService(db, zl)
	followService := service.NewFollowService(db, zl)
	catalogService := service.NewCatalogService(db, zl)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(authService, userService, followService),
		api.NewRecipeHandler(recipeService, membershipService, shoppingListService, authService, writeLimiter),
		api.NewCatalogHandler(catalogService),
		cfg.CORSOrigins,
	)

	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort, zl)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zl.Fatal("server error", "error", err)
		}
	case sig := <-quit:
		zl.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Fatal("server shutdown error", "error", err)
	}
	zl.Info("server stopped")
}
