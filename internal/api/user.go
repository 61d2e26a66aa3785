package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/model"
	"github.com/foodgram-project/backend/internal/service"
)

// UserHandler serves registration, profiles, avatars and the
// subscription endpoints.
type UserHandler struct {
	users         *service.UserService
	auth          *service.AuthService
	subscriptions *service.SubscriptionService
	recipes       *service.RecipeService
}

func NewUserHandler(
	users *service.UserService,
	auth *service.AuthService,
	subscriptions *service.SubscriptionService,
	recipes *service.RecipeService,
) *UserHandler {
	return &UserHandler{
		users:         users,
		auth:          auth,
		subscriptions: subscriptions,
		recipes:       recipes,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, validator middleware.TokenValidator) {
	users := r.Group("/users")
	users.POST("", h.Register)
	users.GET("", middleware.OptionalAuthMiddleware(validator), h.List)
	users.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.Get)

	authed := users.Group("", middleware.AuthMiddleware(validator))
	authed.GET("/me", h.Me)
	authed.PUT("/me/avatar", h.UpdateAvatar)
	authed.DELETE("/me/avatar", h.DeleteAvatar)
	authed.POST("/set_password", h.SetPassword)
	authed.GET("/subscriptions", h.Subscriptions)
	authed.POST("/:id/subscribe", h.Subscribe)
	authed.DELETE("/:id/subscribe", h.Unsubscribe)
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register creates an account. The response omits the per-viewer
// subscription flag and the avatar, matching the write shape.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			respondDomain(c, err)
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// List returns a page of users with the viewer's subscription flags.
func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	users, count, err := h.users.List(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	subscribed, err := h.subscribedFlags(c, users)
	if err != nil {
		respondInternal(c, err)
		return
	}

	results := make([]UserResponse, len(users))
	for i, u := range users {
		results[i] = NewUserResponse(u, subscribed[u.ID])
	}
	c.JSON(http.StatusOK, paginated(c, count, page, limit, results))
}

// Get returns a single profile.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		if service.NotFound(err) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}

	subscribed, err := h.subscribedFlags(c, []model.User{*user})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(*user, subscribed[user.ID]))
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(*user, false))
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// SetPassword changes the caller's password.
func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword), errors.Is(err, service.ErrSamePassword):
			respondDomain(c, err)
		default:
			respondInternal(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

type avatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// UpdateAvatar replaces the caller's avatar from a base64 data URI.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.users.UpdateAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			respondValidation(c, map[string][]string{"avatar": {err.Error()}})
			return
		}
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// DeleteAvatar clears the caller's avatar.
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.users.DeleteAvatar(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrNoAvatar) {
			respondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows, each with a
// recipe preview capped by recipes_limit.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	page, limit := pageParams(c)
	recipesLimit := recipesLimitParam(c)

	authors, count, err := h.subscriptions.Subscriptions(c.Request.Context(), userID, (page-1)*limit, limit)
	if err != nil {
		respondInternal(c, err)
		return
	}

	results := make([]UserWithRecipesResponse, 0, len(authors))
	authorIDs := make([]uint, len(authors))
	for i, a := range authors {
		authorIDs[i] = a.ID
	}
	counts, err := h.recipes.CountByAuthors(c.Request.Context(), authorIDs)
	if err != nil {
		respondInternal(c, err)
		return
	}

	for _, author := range authors {
		preview, err := h.recipes.ByAuthor(c.Request.Context(), author.ID, recipesLimit)
		if err != nil {
			respondInternal(c, err)
			return
		}
		results = append(results, NewUserWithRecipesResponse(author, true, preview, counts[author.ID]))
	}
	c.JSON(http.StatusOK, paginated(c, count, page, limit, results))
}

// Subscribe follows an author and returns their profile with a recipe
// preview.
func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		switch {
		case service.NotFound(err):
			respondNotFound(c)
		case errors.Is(err, service.ErrSelfSubscription), errors.Is(err, service.ErrAlreadySubscribed):
			respondDomain(c, err)
		default:
			respondInternal(c, err)
		}
		return
	}

	preview, err := h.recipes.ByAuthor(c.Request.Context(), author.ID, recipesLimitParam(c))
	if err != nil {
		respondInternal(c, err)
		return
	}
	counts, err := h.recipes.CountByAuthors(c.Request.Context(), []uint{author.ID})
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserWithRecipesResponse(*author, true, preview, counts[author.ID]))
}

// Unsubscribe unfollows an author.
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		switch {
		case service.NotFound(err):
			respondNotFound(c)
		case errors.Is(err, service.ErrNotSubscribed):
			respondDomain(c, err)
		default:
			respondInternal(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) subscribedFlags(c *gin.Context, users []model.User) (map[uint]bool, error) {
	var viewer *uint
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return h.subscriptions.Subscribed(c.Request.Context(), viewer, ids)
}

// recipesLimitParam caps the recipe preview on subscription payloads.
// Zero means no cap.
func recipesLimitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
