package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/model"
	"github.com/foodgram-project/backend/internal/pdf"
	"github.com/foodgram-project/backend/internal/service"
)

// shoppingListHeader is the title line of the downloaded PDF.
const shoppingListHeader = "Shopping list"

// RecipeHandler serves recipe CRUD, short links, favorites and the
// shopping cart.
type RecipeHandler struct {
	recipes       *service.RecipeService
	cart          *service.CartService
	subscriptions *service.SubscriptionService
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	cart *service.CartService,
	subscriptions *service.SubscriptionService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		cart:          cart,
		subscriptions: subscriptions,
	}
}

func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup, validator middleware.TokenValidator) {
	recipes := r.Group("/recipes")
	recipes.GET("", middleware.OptionalAuthMiddleware(validator), h.List)
	recipes.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.Get)
	recipes.GET("/:id/get-link", h.GetLink)

	authed := recipes.Group("", middleware.AuthMiddleware(validator))
	authed.POST("", h.Create)
	authed.PATCH("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)
	authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
	authed.POST("/:id/favorite", h.AddFavorite)
	authed.DELETE("/:id/favorite", h.RemoveFavorite)
	authed.POST("/:id/shopping_cart", h.AddToCart)
	authed.DELETE("/:id/shopping_cart", h.RemoveFromCart)
}

// List returns a filtered recipe page. The favorite and cart filters
// are ignored for anonymous viewers.
func (h *RecipeHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	filters := service.RecipeFilters{
		TagSlugs:  c.QueryArray("tags"),
		Favorited: c.Query("is_favorited") == "1",
		InCart:    c.Query("is_in_shopping_cart") == "1",
		Offset:    (page - 1) * limit,
		Limit:     limit,
	}
	if author := c.Query("author"); author != "" {
		if id, err := strconv.ParseUint(author, 10, 32); err == nil {
			authorID := uint(id)
			filters.AuthorID = &authorID
		}
	}
	if viewerID, ok := middleware.UserID(c); ok {
		filters.ViewerID = &viewerID
	}

	recipes, count, err := h.recipes.List(c.Request.Context(), filters)
	if err != nil {
		respondInternal(c, err)
		return
	}

	results, err := h.toResponses(c, recipes)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, count, page, limit, results))
}

// Get returns a single recipe with the viewer's flags.
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}

	results, err := h.toResponses(c, []model.Recipe{*recipe})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, results[0])
}

// Create stores a new recipe and returns the full read shape.
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, errs := req.Validate(false)
	if errs != nil {
		respondValidation(c, errs)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.respondWriteError(c, err)
		return
	}

	results, err := h.toResponses(c, []model.Recipe{*recipe})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, results[0])
}

// Update partially updates a recipe. The image may be omitted to keep
// the stored one; the remaining write fields are jointly required.
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, errs := req.Validate(true)
	if errs != nil {
		respondValidation(c, errs)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, in)
	if err != nil {
		h.respondWriteError(c, err)
		return
	}

	results, err := h.toResponses(c, []model.Recipe{*recipe})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, results[0])
}

// Delete removes the caller's recipe.
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.recipes.Delete(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case service.NotFound(err):
			respondNotFound(c)
		case errors.Is(err, service.ErrNotAuthor):
			c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		default:
			respondInternal(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink returns the recipe's current short URL.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.recipes.ShortLink(c.Request.Context(), id)
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": url})
}

// AddFavorite marks the recipe as liked.
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.cart.AddFavorite, service.ErrAlreadyFavorited)
}

// RemoveFavorite removes the like.
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.cart.RemoveFavorite, service.ErrNotFavorited)
}

// AddToCart puts the recipe into the shopping cart.
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.cart.AddToCart, service.ErrAlreadyInCart)
}

// RemoveFromCart takes the recipe out of the shopping cart.
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.cart.RemoveFromCart, service.ErrNotInCart)
}

// DownloadShoppingCart renders the aggregated purchase list as a PDF
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	items, err := h.cart.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}

	data, err := pdf.Render(service.Lines(items), shoppingListHeader)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ingredients.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *RecipeHandler) addRelation(
	c *gin.Context,
	add func(ctx context.Context, userID, recipeID uint) (*model.Recipe, error),
	conflict error,
) {
	userID, _ := middleware.UserID(c)
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		switch {
		case service.NotFound(err):
			respondNotFound(c)
		case errors.Is(err, conflict):
			respondDomain(c, err)
		default:
			respondInternal(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, NewRecipeSimpleResponse(*recipe))
}

func (h *RecipeHandler) removeRelation(
	c *gin.Context,
	remove func(ctx context.Context, userID, recipeID uint) error,
	absent error,
) {
	userID, _ := middleware.UserID(c)
	recipeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := remove(c.Request.Context(), userID, recipeID)
	if err != nil {
		switch {
		case service.NotFound(err):
			respondNotFound(c)
		case errors.Is(err, absent):
			respondDomain(c, err)
		default:
			respondInternal(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) respondWriteError(c *gin.Context, err error) {
	switch {
	case service.NotFound(err):
		respondNotFound(c)
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, service.ErrTagMissing):
		respondValidation(c, map[string][]string{"tags": {"One or more tags do not exist."}})
	case errors.Is(err, service.ErrIngredientMissing):
		respondValidation(c, map[string][]string{"ingredients": {"One or more ingredients do not exist."}})
	case errors.Is(err, service.ErrInvalidImage):
		respondValidation(c, map[string][]string{"image": {err.Error()}})
	default:
		respondInternal(c, err)
	}
}

// toResponses builds full read payloads for a recipe slice, resolving
// the viewer's favorite/cart flags and author subscriptions in bulk.
func (h *RecipeHandler) toResponses(c *gin.Context, recipes []model.Recipe) ([]RecipeResponse, error) {
	var viewer *uint
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}

	favorited, inCart, err := h.recipes.Flags(c.Request.Context(), viewer, recipes)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint, 0, len(recipes))
	seen := make(map[uint]bool, len(recipes))
	for _, r := range recipes {
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}
	subscribed, err := h.subscriptions.Subscribed(c.Request.Context(), viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	results := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		results[i] = NewRecipeResponse(r, favorited[r.ID], inCart[r.ID], subscribed[r.AuthorID])
	}
	return results, nil
}
