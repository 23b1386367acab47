package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/inventoryhub/backend/internal/handlers"
	"github.com/inventoryhub/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	authRequired fiber.Handler,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	categoryHandler *handlers.CategoryHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
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

	// Auth — public, with a stricter limit: 10 req/min per IP. This is
	// also what throttles OTP guessing.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Get("/google", authHandler.GoogleAuthURL)
	auth.Get("/callback/google", authHandler.GoogleCallback)
	auth.Post("/google/login", authHandler.GoogleLogin)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/verify-reset-otp", authHandler.VerifyResetOTP)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/resend-reset-otp", authHandler.ResendResetOTP)

	// Logout accepts but does not require a bearer token.
	auth.Post("/logout", authHandler.Logout)

	api.Get("/auth/me", authRequired, authHandler.Me)

	// Inventory (protected)
	api.Get("/products", authRequired, productHandler.List)
	api.Post("/products", authRequired, productHandler.Create)
	api.Get("/products/:id", authRequired, productHandler.Get)
	api.Put("/products/:id", authRequired, productHandler.Update)
	api.Delete("/products/:id", authRequired, productHandler.Delete)

	api.Get("/categories", authRequired, categoryHandler.List)
	api.Post("/categories", authRequired, categoryHandler.Create)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", authRequired, middleware.AdminRequired())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
}
