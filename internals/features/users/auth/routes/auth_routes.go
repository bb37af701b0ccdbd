package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/users/auth/controller"
	rateLimiter "iteamhub_backend/internals/middlewares"
)

// AuthPublicRoutes mounts the unauthenticated auth endpoints under /api.
func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	g := r.Group("/auth")
	g.Post("/register/student", rateLimiter.RegisterRateLimiter(), ctrl.RegisterStudent)
	g.Post("/register/staff", rateLimiter.RegisterRateLimiter(), ctrl.RegisterStaff)
	g.Post("/register/admin", rateLimiter.RegisterRateLimiter(), ctrl.RegisterAdmin)
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctrl.Login)
	g.Post("/login-google", rateLimiter.LoginRateLimiter(), ctrl.LoginGoogle)
	g.Post("/refresh-token", ctrl.RefreshToken)
	// Logout works with or without a valid session; it only clears state.
	g.Post("/logout", ctrl.Logout)
}

// AuthUserRoutes mounts the session-bound auth endpoints under /api/u.
func AuthUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	g := r.Group("/auth")
	g.Post("/change-password", ctrl.ChangePassword)
}
