package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bookmycampus/campus-booking-backend/internal/auth"
	"github.com/bookmycampus/campus-booking-backend/internal/booking"
	bookingHttp "github.com/bookmycampus/campus-booking-backend/internal/booking/http"
	"github.com/bookmycampus/campus-booking-backend/internal/department"
	deptHttp "github.com/bookmycampus/campus-booking-backend/internal/department/http"
	"github.com/bookmycampus/campus-booking-backend/internal/resource"
	resHttp "github.com/bookmycampus/campus-booking-backend/internal/resource/http"
	"github.com/bookmycampus/campus-booking-backend/internal/user"
	userHttp "github.com/bookmycampus/campus-booking-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService user.Service
	DeptService department.Service
	Registry    *resource.Registry
	Engine      *booking.Engine
	JWTManager  *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, auth) and registers the
// routes of every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	deptHandler := deptHttp.NewHandler(cfg.DeptService)
	resourceHandler := resHttp.NewHandler(cfg.Registry)
	bookingHandler := bookingHttp.NewHandler(cfg.Engine)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		deptHttp.RegisterRoutes(v1, deptHandler)
		resHttp.RegisterRoutes(v1, resourceHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
