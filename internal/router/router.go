package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/asoline/lawncare-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/asoline/lawncare-booking/internal/middleware" // import middleware for JWT authentication and the admin gate
)

// Handlers bundles everything the router needs to wire the API surface.
type Handlers struct {
	Auth        *handler.AuthHandler
	Contact     *handler.ContactHandler
	Appointment *handler.AppointmentHandler
	Payment     *handler.PaymentHandler
}

// Register wires every route of the service onto the provided Echo
// instance. Route layout:
//
//	GET  /healthz                        public health check
//	POST /api/auth/register              public
//	POST /api/auth/login                 public
//	POST /api/contact                    public, rate limited
//	GET  /api/auth/me                    authenticated
//	GET  /api/contact                    admin
//	POST /api/appointments               authenticated
//	GET  /api/appointments               authenticated
//	GET  /api/appointments/:id           authenticated
//	PATCH /api/appointments/:id          admin
//	GET  /api/appointments/:id/payments  authenticated
//	POST /api/payments                   authenticated
//	POST /api/square/initialize          authenticated
//	POST /api/square/process             authenticated
//
// contactLimiter wraps only the public contact submission so form spam
// cannot fill the store; pass echo middleware that is a no-op when rate
// limiting is disabled.
func Register(e *echo.Echo, h Handlers, jwtSecret string, contactLimiter echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Public routes: account creation, login, and the contact form.
	e.POST("/api/auth/register", h.Auth.Register)
	e.POST("/api/auth/login", h.Auth.Login)
	e.POST("/api/contact", h.Contact.Create, contactLimiter)

	// Everything else requires a valid access token. The admin gate is
	// applied per route on top of it.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))

	api.GET("/auth/me", h.Auth.Me)
	api.GET("/contact", h.Contact.List, middleware.RequireAdmin())

	api.POST("/appointments", h.Appointment.Create)
	api.GET("/appointments", h.Appointment.List)
	api.GET("/appointments/:id", h.Appointment.Get)
	api.PATCH("/appointments/:id", h.Appointment.Update, middleware.RequireAdmin())
	api.GET("/appointments/:id/payments", h.Payment.ListByAppointment)

	api.POST("/payments", h.Payment.Create)
	api.POST("/square/initialize", h.Payment.SquareInitialize)
	api.POST("/square/process", h.Payment.SquareProcess)
}
