// Package server wires the services into an HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/router"
	"github.com/foodgram-project/backend/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server owns the router and the underlying HTTP listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// NewServer builds the full service graph and mounts the routes.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Client service.S3API) *Server {
	images := service.NewImageService(cfg, s3Client)

	auth := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	users := service.NewUserService(db, images)
	catalog := service.NewCatalogService(db)
	recipes := service.NewRecipeService(db, images, redisClient, cfg.DomainName)
	cart := service.NewCartService(db)
	subscriptions := service.NewSubscriptionService(db)

	engine := router.SetupRouter(router.Handlers{
		Auth:      api.NewAuthHandler(auth),
		Users:     api.NewUserHandler(users, auth, subscriptions, recipes),
		Catalog:   api.NewCatalogHandler(catalog),
		Recipes:   api.NewRecipeHandler(recipes, cart, subscriptions),
		ShortLink: api.NewShortLinkHandler(recipes),
	}, auth)

	return &Server{router: engine}
}

// Start runs the listener until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
