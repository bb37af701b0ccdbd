package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/users/user/controller"
)

// ProfileUserRoutes mounts the member profile endpoints under /api/u.
func ProfileUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewProfileController(db)

	g := r.Group("/profile")
	g.Get("/", ctrl.Me)
	g.Put("/", ctrl.UpdateMe)
	g.Post("/photo", ctrl.UploadPhoto)
}

// UserAdminRoutes mounts user management under /api/a.
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAdminUserController(db)

	g := r.Group("/users")
	g.Get("/", ctrl.List)
	g.Get("/counts", ctrl.Counts)
	g.Get("/:id", ctrl.Detail)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Deactivate)
}
