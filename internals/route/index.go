package route

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	eventRoutes "iteamhub_backend/internals/features/events/event/routes"
	membershipRoutes "iteamhub_backend/internals/features/memberships/membership/routes"
	paymentRoutes "iteamhub_backend/internals/features/memberships/payment/routes"
	notificationRoutes "iteamhub_backend/internals/features/notifications/notification/routes"
	authRoutes "iteamhub_backend/internals/features/users/auth/routes"
	userRoutes "iteamhub_backend/internals/features/users/user/routes"
	authMiddleware "iteamhub_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes wires every feature under three groups:
//
//	/api   : public (registration, login, gateway webhook)
//	/api/u : authenticated members (any role)
//	/api/a : admins only
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC routes...")
	public := app.Group("/api")
	authRoutes.AuthPublicRoutes(public, db)
	paymentRoutes.PaymentPublicRoutes(public, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", authMiddleware.AuthMiddleware(db))
	authRoutes.AuthUserRoutes(user, db)
	userRoutes.ProfileUserRoutes(user, db)
	membershipRoutes.MembershipUserRoutes(user, db)
	paymentRoutes.PaymentUserRoutes(user, db)
	eventRoutes.EventUserRoutes(user, db)
	notificationRoutes.NotificationUserRoutes(user, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this area"), constants.AdminOnly...),
	)
	userRoutes.UserAdminRoutes(admin, db)
	membershipRoutes.MembershipAdminRoutes(admin, db)
	paymentRoutes.PaymentAdminRoutes(admin, db)
	eventRoutes.EventAdminRoutes(admin, db)
	notificationRoutes.NotificationAdminRoutes(admin, db)
}
