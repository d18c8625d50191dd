package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookmycampus/campus-booking-backend/internal/department"
)

type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Handler struct {
	service department.Service
}

func NewHandler(service department.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}

	items := make([]DepartmentResponse, len(departments))
	for i, d := range departments {
		items[i] = DepartmentResponse{ID: d.ID, Name: d.Name}
	}

	c.JSON(http.StatusOK, items)
}

// RegisterRoutes exposes the catalog. Public: the signup form needs it
// before any token exists.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/departments", h.List)
}
