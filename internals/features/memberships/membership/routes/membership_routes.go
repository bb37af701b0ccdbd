package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/memberships/membership/controller"
)

// MembershipUserRoutes mounts member-facing membership reads under /api/u.
func MembershipUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMembershipController(db)

	g := r.Group("/memberships")
	g.Get("/current", ctrl.GetCurrent)
	g.Get("/active", ctrl.GetActive)
	g.Get("/history", ctrl.GetHistory)
}

// MembershipAdminRoutes mounts the admin membership management under /api/a.
func MembershipAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMembershipController(db)

	g := r.Group("/memberships")
	g.Get("/", ctrl.AdminList)
	g.Get("/:id", ctrl.AdminDetail)
	g.Put("/:id", ctrl.AdminUpdate)
}
