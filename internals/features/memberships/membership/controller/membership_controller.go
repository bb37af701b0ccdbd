package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/memberships/membership/dto"
	"iteamhub_backend/internals/features/memberships/membership/model"
	"iteamhub_backend/internals/features/memberships/membership/service"
	helper "iteamhub_backend/internals/helpers"
)

type MembershipController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMembershipController(db *gorm.DB) *MembershipController {
	return &MembershipController{DB: db, Validate: validator.New()}
}

/* ===================== Member endpoints ===================== */

// GET /api/u/memberships/current
func (mc *MembershipController) GetCurrent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	m, err := service.CurrentMembership(mc.DB, userID)
	if err != nil {
		if service.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "No membership found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load membership")
	}
	return helper.JsonOK(c, "OK", dto.FromMembershipModel(m))
}

// GET /api/u/memberships/active
// Lightweight check used by clients to gate event registration.
func (mc *MembershipController) GetActive(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	active, err := service.HasActiveMembership(mc.DB, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check membership")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"active": active})
}

// GET /api/u/memberships/history
func (mc *MembershipController) GetHistory(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := mc.DB.Model(&model.MembershipModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count memberships")
	}

	var rows []model.MembershipModel
	if err := mc.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load memberships")
	}

	out := make([]dto.MembershipResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromMembershipModel(&rows[i]))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* ===================== Admin endpoints ===================== */

// GET /api/a/memberships
// Filters: ?status=, ?tier=, ?role=
func (mc *MembershipController) AdminList(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := mc.DB.Table("memberships").
		Select(`memberships.id, memberships.user_id, memberships.tier, memberships.status,
			memberships.amount, memberships.eid, memberships.start_date, memberships.end_date,
			memberships.created_at, profiles.first_name, profiles.last_name, profiles.role`).
		Joins("JOIN profiles ON profiles.id = memberships.user_id")

	if status := c.Query("status"); status != "" {
		if !model.IsValidMembershipStatus(status) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown membership status")
		}
		q = q.Where("memberships.status = ?", status)
	}
	if tier := c.Query("tier"); tier != "" {
		if !model.IsValidTier(tier) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown membership tier")
		}
		q = q.Where("memberships.tier = ?", tier)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("profiles.role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count memberships")
	}

	var rows []dto.MembershipWithProfileResponse
	if err := q.Order("memberships.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load memberships")
	}

	return helper.JsonList(c, "OK", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/memberships/:id
func (mc *MembershipController) AdminDetail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var m model.MembershipModel
	if err := mc.DB.First(&m, "id = ?", id).Error; err != nil {
		if service.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "Membership not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load membership")
	}
	return helper.JsonOK(c, "OK", dto.FromMembershipModel(&m))
}

// PUT /api/a/memberships/:id
// Status changes go through the membership state machine; setting the
// status to active triggers E-ID issuance when the row has none yet.
func (mc *MembershipController) AdminUpdate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AdminUpdateMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := mc.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	endDate, err := req.ParsedEndDate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid end_date, use YYYY-MM-DD")
	}

	m, err := service.AdminUpdate(mc.DB, id, req.Status, req.Tier, endDate)
	if err != nil {
		switch {
		case service.IsNotFound(err):
			return helper.JsonError(c, fiber.StatusNotFound, "Membership not found")
		case errors.Is(err, model.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		default:
			log.Printf("[MEMBERSHIP] admin update %s failed: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update membership")
		}
	}
	return helper.JsonUpdated(c, "Membership updated", dto.FromMembershipModel(m))
}
