// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/handler"
	"github.com/dfquintero/recreo/internal/middleware"
	"github.com/dfquintero/recreo/internal/model"
)

// RegisterRoutes registers routes that need no authentication or
// dependencies. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login and
// refresh live under /v1/auth and need no token; logout revokes the
// caller's refresh tokens and therefore requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// element catalog, the room list and the weekly availability views.
// These are read-mostly, so they carry the Redis response cache and
// the rate limiter.
func RegisterPublic(e *echo.Echo, rooms *handler.RoomHandler, elements *handler.ElementHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)
	g.GET("/elements", elements.List)
	g.GET("/elements/:id", elements.Get)
	g.GET("/rooms", rooms.List)
	g.GET("/rooms/:id", rooms.Get)
	g.GET("/rooms/:id/availability", rooms.Availability)
}

// RegisterBooking registers the reservation lifecycle for
// authenticated users. Any role can book; ownership checks happen in
// the handlers because admins may operate on other users'
// reservations.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleStudent, model.RoleAdmin, model.RoleFunctionary))
	g.POST("", r.Create)
	g.GET("", r.ListMine)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Destroy)
}

// RegisterAdmin registers catalog and room administration plus the
// finalize flow and the read-only register views. Catalog and room
// stocking are open to functionaries as well; finalize and the
// registers stay admin only.
func RegisterAdmin(e *echo.Echo, rooms *handler.RoomHandler, elements *handler.ElementHandler, registers *handler.RegisterHandler, reservations *handler.ReservationHandler, jwtSecret string) {
	staff := e.Group("/v1")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleFunctionary))
	staff.POST("/elements", elements.Create)
	staff.PUT("/elements/:id", elements.Update)
	staff.DELETE("/elements/:id", elements.Delete)
	staff.POST("/rooms", rooms.Create)
	staff.PUT("/rooms/:id", rooms.Update)
	staff.PUT("/rooms/:id/elements", rooms.Stock)
	staff.DELETE("/rooms/:id", rooms.Delete)

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/reservations/:id/finalize", registers.Finalize)
	admin.GET("/admin/reservations", reservations.ListAll)
	admin.GET("/admin/registers", registers.List)
	admin.GET("/admin/registers/:id", registers.Get)
}
