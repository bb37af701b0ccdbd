package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/memberships/payment/controller"
)

// PaymentPublicRoutes mounts the unauthenticated gateway webhook under /api.
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)
	r.Post("/payments/midtrans/notification", ctrl.MidtransNotification)
}

// PaymentUserRoutes mounts member payment submission under /api/u.
func PaymentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	g := r.Group("/payments")
	g.Get("/", ctrl.ListMine)
	g.Post("/", ctrl.Submit)
	g.Post("/online", ctrl.CreateOnline)
}

// PaymentAdminRoutes mounts the verification queue under /api/a.
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	g := r.Group("/payments")
	g.Get("/", ctrl.AdminList)
	g.Put("/:id/verify", ctrl.AdminVerify)
}
