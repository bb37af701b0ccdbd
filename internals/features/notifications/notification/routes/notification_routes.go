package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/notifications/notification/controller"
)

// NotificationUserRoutes mounts the member inbox under /api/u.
func NotificationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationController(db)

	g := r.Group("/notifications")
	g.Get("/", ctrl.List)
	g.Put("/read-all", ctrl.MarkAllRead)
	g.Put("/:id/read", ctrl.MarkRead)
}

// NotificationAdminRoutes mounts broadcast publishing under /api/a.
func NotificationAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationController(db)

	g := r.Group("/notifications")
	g.Post("/broadcast", ctrl.Broadcast)
}
