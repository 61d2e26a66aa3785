package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/service"
)

// ShortLinkHandler redirects short URLs to the recipe's canonical
// frontend page. It registers at the engine root, outside the /api
// prefix.
type ShortLinkHandler struct {
	recipes *service.RecipeService
}

func NewShortLinkHandler(recipes *service.RecipeService) *ShortLinkHandler {
	return &ShortLinkHandler{recipes: recipes}
}

func (h *ShortLinkHandler) RegisterRoutes(r *gin.Engine) {
	// The trailing-slash variant is covered by gin's redirect.
	r.GET("/s/:linkID", h.Redirect)
}

// Redirect resolves the identifier and issues a 302 to the recipe
// page. Unknown identifiers 404; lookups are exact-match only.
func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	recipe, err := h.recipes.Resolve(c.Request.Context(), c.Param("linkID"))
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", recipe.ID))
}
