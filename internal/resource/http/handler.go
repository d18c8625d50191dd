package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookmycampus/campus-booking-backend/internal/resource"
)

type Handler struct {
	registry *resource.Registry
}

func NewHandler(registry *resource.Registry) *Handler {
	return &Handler{registry: registry}
}

// List returns the full catalog in its configured order.
func (h *Handler) List(c *gin.Context) {
	entries := h.registry.List()

	items := make([]ResourceResponse, len(entries))
	for i, r := range entries {
		items[i] = NewResourceResponse(r)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")

	r, err := h.registry.Get(id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get resource"})
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(r))
}
