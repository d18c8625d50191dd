package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookmycampus/campus-booking-backend/internal/api"
	"github.com/bookmycampus/campus-booking-backend/internal/auth"
	"github.com/bookmycampus/campus-booking-backend/internal/booking"
	"github.com/bookmycampus/campus-booking-backend/internal/department"
	"github.com/bookmycampus/campus-booking-backend/internal/notification"
	"github.com/bookmycampus/campus-booking-backend/internal/resource"
	"github.com/bookmycampus/campus-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Policy       booking.Policy
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Engine     *booking.Engine
}

// NewContainer seeds the catalogs, wires all modules and returns the container.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Department catalog
	if err := department.Seed(ctx, cfg.DBPool, department.DefaultCatalog()); err != nil {
		return nil, fmt.Errorf("seed departments: %w", err)
	}
	deptRepo := department.NewPgxRepository(cfg.DBPool)
	deptService := department.NewService(deptRepo)

	// Resource catalog: seeded once, then loaded into the immutable registry.
	if err := resource.Seed(ctx, cfg.DBPool, resource.DefaultCatalog()); err != nil {
		return nil, fmt.Errorf("seed resources: %w", err)
	}
	registry, err := resource.Load(ctx, cfg.DBPool)
	if err != nil {
		return nil, fmt.Errorf("load resource catalog: %w", err)
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, deptService)

	// Scheduling engine
	store := booking.NewPgxStore(cfg.DBPool)
	notifier := notification.NewLogNotifier()
	engine := booking.NewEngine(store, registry, notifier, cfg.Policy)

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		UserService:  userService,
		DeptService:  deptService,
		Registry:     registry,
		Engine:       engine,
		JWTManager:   jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Engine:     engine,
	}, nil
}
