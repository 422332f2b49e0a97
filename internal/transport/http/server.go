// Package http exposes the booking engine over a versioned JSON API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
)

type RouterConfig struct {
	JWTSecret []byte
	AppEnv    string
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg RouterConfig, bookings *BookingHandler, windows *AvailabilityHandler, reviews *ReviewHandler, log *zap.Logger) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log.Named("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(Auth(cfg.JWTSecret))

	b := v1.Group("/bookings")
	{
		b.POST("", RequireRole(domain.RoleClient), bookings.Create)
		b.GET("", bookings.List)
		b.GET("/:id", bookings.Get)
		b.PATCH("/:id", bookings.Update)
		b.POST("/:id/cancel", bookings.Cancel)
		b.POST("/:id/complete", RequireRole(domain.RolePhotographer, domain.RoleAdmin), bookings.Complete)
		b.POST("/:id/reviews", RequireRole(domain.RoleClient), reviews.Create)
	}

	a := v1.Group("/availability", RequireRole(domain.RolePhotographer, domain.RoleAdmin))
	{
		a.GET("", windows.ListMine)
		a.POST("", windows.Create)
		a.PUT("/:id", windows.Update)
		a.DELETE("/:id", windows.Delete)
	}

	p := v1.Group("/photographers")
	{
		p.GET("/:id", reviews.GetPhotographer)
		p.GET("/:id/availability", windows.ListForPhotographer)
		p.GET("/:id/availability/check", bookings.CheckAvailability)
		p.GET("/:id/reviews", reviews.ListForPhotographer)
	}

	rv := v1.Group("/reviews")
	{
		rv.GET("/me", RequireRole(domain.RoleClient), reviews.ListMine)
		rv.PUT("/:id", RequireRole(domain.RoleClient), reviews.Update)
		rv.DELETE("/:id", reviews.Delete)
	}

	return r
}
