// Package api contains the HTTP handlers. Each handler owns a slice of
// the API surface and registers its own routes on the shared router
// group.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric path parameter. A non-numeric id behaves
// like a missing record.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

// respondValidation emits field-scoped validation errors, keyed by the
// offending field.
func respondValidation(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusBadRequest, errs)
}

// respondDomain reports a domain rule violation (duplicate favorite,
// self subscription and the like).
func respondDomain(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
}

func respondInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
