package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/config"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/handlers"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	taskHandler *handlers.TaskHandler,
	planHandler *handlers.PlanHandler,
	syncHandler *handlers.SyncHandler,
	directoryHandler *handlers.DirectoryHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Protected routes
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Get("/tasks", taskHandler.List)
	protected.Get("/tasks/filter", taskHandler.Filter)
	protected.Post("/tasks", taskHandler.Create)
	protected.Get("/tasks/:id", taskHandler.Get)
	protected.Put("/tasks/:id", taskHandler.Update)
	protected.Delete("/tasks/:id", taskHandler.Delete)

	protected.Get("/plans", planHandler.List)
	protected.Post("/plans", planHandler.Create)
	protected.Get("/plans/:id", planHandler.Get)
	protected.Put("/plans/:id", planHandler.Update)
	protected.Delete("/plans/:id", planHandler.Delete)

	protected.Post("/sync/run", syncHandler.Run)

	protected.Get("/users", directoryHandler.ListUsers)
	protected.Get("/teams", directoryHandler.ListTeams)

	// Admin sync controls
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/sync/start", syncHandler.Start)
	admin.Post("/sync/stop", syncHandler.Stop)
	admin.Post("/sync/run-all", syncHandler.RunAll)
	admin.Get("/sync/log", syncHandler.AuditLog)
}
