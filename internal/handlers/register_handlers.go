package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
	"github.com/ringlabs/ring_token_engine/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(cors.Default())

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
	setupAdminRoutes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Collaborator traffic: service JWT plus per-IP rate limiting.
	rate, _ := limiter.NewRateFromFormatted("120-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1",
		middleware.RateLimit(ipLimiter),
		middleware.ServiceAuthMiddleware(cfg.ServiceJWTSecret),
	)

	registerPublishEventRoutes(v1, services.PublishEvent, cfg)
	registerBalanceRoutes(v1, services.Balance, cfg)
	registerReceiptRoutes(v1, services.Receipt)
	registerUserRoutes(v1, services.User)
}

// setupAdminRoutes configures the operational /admin group.
func setupAdminRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	rate, _ := limiter.NewRateFromFormatted("10-M")
	adminLimiter := limiter.New(memory.NewStore(), rate)

	admin := r.Group("/admin",
		middleware.RateLimit(adminLimiter),
		middleware.ServiceAuthMiddleware(cfg.ServiceJWTSecret),
	)

	registerAdminRoutes(admin, services, cfg)
}
