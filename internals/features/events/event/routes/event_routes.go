package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/events/event/controller"
)

// EventUserRoutes mounts member-facing event reads and registration under /api/u.
func EventUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)

	g := r.Group("/events")
	g.Get("/", ctrl.List)
	g.Get("/mine", ctrl.ListMine)
	g.Get("/:id", ctrl.Detail)
	g.Post("/:id/register", ctrl.Register)
	g.Delete("/:id/register", ctrl.Unregister)
}

// EventAdminRoutes mounts event management under /api/a.
func EventAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)

	g := r.Group("/events")
	g.Post("/", ctrl.Create)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/poster", ctrl.UploadPoster)
	g.Get("/:id/registrants", ctrl.Registrants)
	g.Put("/:id/attendance", ctrl.MarkAttendance)
}
