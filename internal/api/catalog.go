package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/service"
)

// CatalogHandler serves the public tag and ingredient reference data.
// Neither listing is paginated; the frontend consumes them whole.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/tags", h.Tags)
	r.GET("/tags/:id", h.Tag)
	r.GET("/ingredients", h.Ingredients)
	r.GET("/ingredients/:id", h.Ingredient)
}

func (h *CatalogHandler) Tags(c *gin.Context) {
	tags, err := h.catalog.Tags(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	results := make([]TagResponse, len(tags))
	for i, t := range tags {
		results[i] = TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	c.JSON(http.StatusOK, results)
}

func (h *CatalogHandler) Tag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.catalog.Tag(c.Request.Context(), id)
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

// Ingredients searches ingredients by name. Prefix matches come first.
func (h *CatalogHandler) Ingredients(c *gin.Context) {
	ingredients, err := h.catalog.Ingredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondInternal(c, err)
		return
	}

	results := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		results[i] = IngredientResponse{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}
	}
	c.JSON(http.StatusOK, results)
}

func (h *CatalogHandler) Ingredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.catalog.Ingredient(c.Request.Context(), id)
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	})
}
