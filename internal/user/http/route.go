package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/auth")

	group.POST("/signup", h.Signup)
	group.POST("/login", h.Login)

	group.GET("/me", authMiddleware, h.Me)
}
