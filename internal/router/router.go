package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/service"
)

// Handlers bundles everything SetupRouter mounts.
type Handlers struct {
	Auth      *api.AuthHandler
	Users     *api.UserHandler
	Catalog   *api.CatalogHandler
	Recipes   *api.RecipeHandler
	ShortLink *api.ShortLinkHandler
}

// SetupRouter configures the application routes. Each handler
// registers its own slice of the /api surface; the short-link redirect
// lives at the engine root.
func SetupRouter(h Handlers, auth *service.AuthService) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	h.Auth.RegisterRoutes(apiGroup, auth)
	h.Users.RegisterRoutes(apiGroup, auth)
	h.Catalog.RegisterRoutes(apiGroup)
	h.Recipes.RegisterRoutes(apiGroup, auth)
	h.ShortLink.RegisterRoutes(router)

	return router
}
