package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/my", h.My)
		bookings.GET("/pending", h.Pending)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id", h.Act)
	}

	calendar := g.Group("/calendar")
	calendar.Use(authMiddleware)
	{
		calendar.GET("/events", h.Calendar)
	}
}
