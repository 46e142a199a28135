// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/driveease/car-rental-api/internal/config"
	"github.com/driveease/car-rental-api/internal/handler"
	"github.com/driveease/car-rental-api/internal/middleware"
	"github.com/driveease/car-rental-api/internal/model"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Booking  *handler.BookingHandler
	Notifs   *handler.NotificationHandler
	AdminCar *handler.AdminCarHandler
	Admin    *handler.AdminHandler
}

// Register mounts every route.  Layout:
//
//	/healthz                    liveness probe
//	/v1/cars...  /v1/site-info  public catalog, wrapped in the response cache
//	/v1/auth/...                credential endpoints, rate-limited
//	/v1/...                     customer endpoints behind JWT
//	/v1/admin/...               back office, Admin role only
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Public catalog.  Cached: listings and quotes are read-heavy and
	// tolerate CACHE_TTL of staleness; commit always re-checks.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	pub := e.Group("/v1", cache)
	pub.GET("/cars", h.Catalog.ListCars)
	pub.GET("/cars/:id", h.Catalog.GetCar)
	pub.GET("/cars/:id/locations", h.Catalog.GetCarLocations)
	pub.GET("/cars/:id/quote", h.Catalog.GetQuote)
	pub.GET("/site-info", h.Catalog.SiteInfo)

	// Credential endpoints sit behind the token bucket to slow down
	// brute-force and OTP-guessing attempts.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/verify-otp", h.Auth.VerifyOTP)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/verify-reset-otp", h.Auth.VerifyResetOTP)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	// Authenticated customer surface.  Admins pass too: RequireRole
	// accepts both so support staff can inspect and cancel bookings.
	priv := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	priv.GET("/me", h.Auth.Me)
	priv.PUT("/me", h.Auth.UpdateMe)
	priv.POST("/bookings/hold", h.Booking.Hold)
	priv.DELETE("/bookings/hold/:token", h.Booking.ReleaseHold)
	priv.POST("/bookings/commit", h.Booking.Commit)
	priv.GET("/my-bookings", h.Booking.ListMyBookings)
	priv.GET("/bookings/:id", h.Booking.GetBooking)
	priv.DELETE("/bookings/:id", h.Booking.Cancel)
	priv.GET("/notifications", h.Notifs.List)
	priv.GET("/notifications/unread-count", h.Notifs.UnreadCount)

	// Back office.
	admin := e.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.POST("/cars", h.AdminCar.CreateCar)
	admin.PUT("/cars/:id", h.AdminCar.UpdateCar)
	admin.DELETE("/cars/:id", h.AdminCar.DeleteCar)
	admin.PATCH("/cars/:id/availability", h.AdminCar.SetAvailability)
	admin.PUT("/cars/:id/locations", h.AdminCar.ReplaceLocations)
	admin.GET("/customers", h.Admin.ListCustomers)
	admin.GET("/customers/:id", h.Admin.CustomerDetail)
	admin.GET("/bookings", h.Admin.ListBookings)
	admin.DELETE("/bookings/:id", h.Booking.Cancel)
	admin.POST("/notifications", h.Admin.CreateNotification)
	admin.GET("/site-settings", h.Admin.GetSiteSettings)
	admin.PUT("/site-settings", h.Admin.UpdateSiteSettings)
}
