package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	router, _ := setupAPI(t)

	w := doJSON(t, router, http.MethodPost, "/api/users", "", gin.H{
		"email":    "not-an-email",
		"username": "cook",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	router, _ := setupAPI(t)
	registerAndLogin(t, router, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/users", "", gin.H{
		"email":      "cook@example.com",
		"username":   "anothercook",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeAndProfile(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerAndLogin(t, router, "cook")

	w := doJSON(t, router, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "cook", me["username"])
	id := int(me["id"].(float64))

	w = doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cook", decode(t, w)["username"])

	w = doJSON(t, router, http.MethodGet, "/api/users/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetPasswordEndpoint(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerAndLogin(t, router, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/users/set_password", token, gin.H{
		"current_password": "wrong",
		"new_password":     "newpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/users/set_password", token, gin.H{
		"current_password": "password123",
		"new_password":     "newpassword",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/token/login", "", gin.H{
		"email":    "cook@example.com",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAvatarEndpoints(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerAndLogin(t, router, "cook")

	w := doJSON(t, router, http.MethodDelete, "/api/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/users/me/avatar", token, gin.H{
		"avatar": testImage,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["avatar"])

	w = doJSON(t, router, http.MethodPut, "/api/users/me/avatar", token, gin.H{
		"avatar": "garbage",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSubscriptionFlow(t *testing.T) {
	router, db := setupAPI(t)
	fix := seedCatalog(t, db)
	follower := registerAndLogin(t, router, "follower")
	authorToken := registerAndLogin(t, router, "author")

	w := doJSON(t, router, http.MethodGet, "/api/users/me", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	authorID := int(decode(t, w)["id"].(float64))

	for i := 0; i < 2; i++ {
		payload := recipePayload(fix)
		payload["name"] = fmt.Sprintf("Recipe %d", i)
		w = doJSON(t, router, http.MethodPost, "/api/recipes", authorToken, payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	subscribePath := fmt.Sprintf("/api/users/%d/subscribe", authorID)
	w = doJSON(t, router, http.MethodPost, subscribePath+"?recipes_limit=1", follower, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	payload := decode(t, w)
	assert.Equal(t, true, payload["is_subscribed"])
	assert.EqualValues(t, 2, payload["recipes_count"])
	assert.Len(t, payload["recipes"].([]interface{}), 1)

	w = doJSON(t, router, http.MethodPost, subscribePath, follower, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users/subscriptions", follower, nil)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decode(t, w)
	assert.EqualValues(t, 1, envelope["count"])

	// Subscription flag on the author's profile, as the follower.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", authorID), follower, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_subscribed"])

	w = doJSON(t, router, http.MethodDelete, subscribePath, follower, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, subscribePath, follower, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelfSubscription(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerAndLogin(t, router, "loner")

	w := doJSON(t, router, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := int(decode(t, w)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", id), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutInvalidatesNothingWithoutRedis(t *testing.T) {
	router, _ := setupAPI(t)
	token := registerAndLogin(t, router, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/auth/token/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/token/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserListing(t *testing.T) {
	router, _ := setupAPI(t)
	registerAndLogin(t, router, "first")
	registerAndLogin(t, router, "second")

	w := doJSON(t, router, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decode(t, w)
	assert.EqualValues(t, 2, envelope["count"])
	assert.Len(t, envelope["results"].([]interface{}), 2)
}

func TestTagAndIngredientEndpoints(t *testing.T) {
	router, db := setupAPI(t)
	fix := seedCatalog(t, db)

	w := doJSON(t, router, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tags/%d", fix.tag.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dinner", decode(t, w)["slug"])

	w = doJSON(t, router, http.MethodGet, "/api/ingredients?name=be", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/ingredients/%d", fix.beet.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "beet", decode(t, w)["name"])

	w = doJSON(t, router, http.MethodGet, "/api/tags/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
