package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/memberships/payment/dto"
	"iteamhub_backend/internals/features/memberships/payment/model"
	"iteamhub_backend/internals/features/memberships/payment/service"
	helper "iteamhub_backend/internals/helpers"
)

type PaymentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Validate: validator.New()}
}

/* ===================== Member endpoints ===================== */

// POST /api/u/payments (multipart: slip + form fields)
func (pc *PaymentController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	membershipID, err := uuid.Parse(req.MembershipID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid membership_id")
	}
	paymentDate, err := req.ParsedDate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment_date, use YYYY-MM-DD")
	}

	fh, err := c.FormFile("slip")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payment slip file is required")
	}
	slipURL, err := helper.UploadPaymentSlip(userID, fh)
	if err != nil {
		log.Printf("[PAYMENT] slip upload failed for %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to store payment slip")
	}

	p, err := service.SubmitBankTransfer(pc.DB, userID, membershipID, req.Amount, paymentDate, slipURL)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Membership not found")
		case errors.Is(err, service.ErrMembershipNotOwned):
			return helper.JsonError(c, fiber.StatusForbidden, "Membership does not belong to you")
		default:
			log.Printf("[PAYMENT] submit failed for %s: %v", userID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit payment")
		}
	}
	return helper.JsonCreated(c, "Payment submitted, awaiting verification", dto.FromPaymentModel(p))
}

// POST /api/u/payments/online
func (pc *PaymentController) CreateOnline(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateOnlinePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	membershipID, err := uuid.Parse(req.MembershipID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid membership_id")
	}

	name, _ := c.Locals("userName").(string)
	email, _ := c.Locals("userEmail").(string)

	p, token, redirectURL, err := service.CreateOnlinePayment(pc.DB, userID, membershipID, name, email)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Membership not found")
		case errors.Is(err, service.ErrMembershipNotOwned):
			return helper.JsonError(c, fiber.StatusForbidden, "Membership does not belong to you")
		default:
			log.Printf("[PAYMENT] online payment failed for %s: %v", userID, err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Failed to create online payment")
		}
	}
	return helper.JsonCreated(c, "Online payment created", dto.OnlinePaymentResponse{
		Payment:     dto.FromPaymentModel(p),
		SnapToken:   token,
		RedirectURL: redirectURL,
	})
}

// GET /api/u/payments
func (pc *PaymentController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := pc.DB.Model(&model.PaymentModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count payments")
	}

	var rows []model.PaymentModel
	if err := pc.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load payments")
	}

	out := make([]dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPaymentModel(&rows[i]))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* ===================== Admin endpoints ===================== */

// GET /api/a/payments (?status= filter, defaults to all)
func (pc *PaymentController) AdminList(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := pc.DB.Table("payments").
		Select(`payments.id, payments.user_id, payments.membership_id, payments.amount,
			payments.payment_method, payments.payment_date, payments.slip_url, payments.status,
			payments.order_id, payments.verified_by, payments.verified_at, payments.verification_notes,
			payments.created_at, profiles.first_name, profiles.last_name`).
		Joins("JOIN profiles ON profiles.id = payments.user_id")

	if status := c.Query("status"); status != "" {
		if !model.IsValidPaymentStatus(status) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown payment status")
		}
		q = q.Where("payments.status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count payments")
	}

	var rows []dto.PaymentWithProfileResponse
	if err := q.Order("payments.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load payments")
	}

	return helper.JsonList(c, "OK", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PUT /api/a/payments/:id/verify
// Verification is two-step on purpose: the payment row commits first, then
// the membership activation runs. A failed activation returns 502 with the
// already-verified payment so the operator can retry.
func (pc *PaymentController) AdminVerify(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	p, err := service.VerifyPayment(pc.DB, id, req.Status, &adminID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		case errors.Is(err, service.ErrInvalidPaymentTransition):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrCascadeFailed):
			log.Printf("[PAYMENT] verify %s: activation cascade failed: %v", id, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"message": "Payment verified but membership activation failed, retry the verification",
				"data":    dto.FromPaymentModel(p),
			})
		default:
			log.Printf("[PAYMENT] verify %s failed: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to verify payment")
		}
	}
	return helper.JsonUpdated(c, "Payment "+p.Status, dto.FromPaymentModel(p))
}

/* ===================== Gateway webhook ===================== */

// POST /api/payments/midtrans/notification (no auth; the handler re-checks
// the transaction status with the gateway instead of trusting the body)
func (pc *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	var body struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing order_id")
	}

	if err := service.HandleMidtransNotification(pc.DB, body.OrderID); err != nil {
		log.Printf("[MIDTRANS] notification %s failed: %v", body.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process notification")
	}
	return helper.JsonOK(c, "OK", nil)
}
