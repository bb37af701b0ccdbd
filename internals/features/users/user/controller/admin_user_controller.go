package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/users/user/dto"
	"iteamhub_backend/internals/features/users/user/model"
	helper "iteamhub_backend/internals/helpers"
)

type AdminUserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAdminUserController(db *gorm.DB) *AdminUserController {
	return &AdminUserController{DB: db, Validate: validator.New()}
}

// GET /api/a/users (?role=, ?active=, ?q= name/email search)
func (ac *AdminUserController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ac.DB.Table("users").
		Select(`users.id, users.email, users.is_active, users.created_at,
			profiles.first_name, profiles.last_name, profiles.role`).
		Joins("JOIN profiles ON profiles.id = users.id")

	if role := c.Query("role"); role != "" {
		if _, err := constants.ParseRole(role); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown role")
		}
		q = q.Where("profiles.role = ?", role)
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("users.is_active = ?", active == "true")
	}
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("users.email ILIKE ? OR profiles.first_name ILIKE ? OR profiles.last_name ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var rows []dto.UserListItem
	if err := q.Order("users.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}
	return helper.JsonList(c, "OK", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/users/counts returns the dashboard headline numbers.
func (ac *AdminUserController) Counts(c *fiber.Ctx) error {
	var counts dto.RoleCounts
	if err := ac.DB.Model(&model.ProfileModel{}).Count(&counts.Total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}
	type roleCount struct {
		Role string
		N    int64
	}
	var rows []roleCount
	if err := ac.DB.Model(&model.ProfileModel{}).
		Select("role, COUNT(*) AS n").
		Group("role").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count roles")
	}
	for _, r := range rows {
		switch r.Role {
		case constants.RoleStudent.String():
			counts.Students = r.N
		case constants.RoleStaff.String():
			counts.Staff = r.N
		case constants.RoleAdmin.String():
			counts.Admins = r.N
		}
	}
	return helper.JsonOK(c, "OK", counts)
}

// GET /api/a/users/:id
func (ac *AdminUserController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := NewProfileController(ac.DB).loadProfile(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonOK(c, "OK", resp)
}

// PUT /api/a/users/:id handles role change, activation toggle, name fix-ups.
func (ac *AdminUserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	var user model.UserModel
	if err := ac.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsActive != nil {
			if err := tx.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
				return err
			}
		}

		pu := map[string]any{}
		if req.Role != nil {
			role, err := constants.ParseRole(*req.Role)
			if err != nil {
				return err
			}
			pu["role"] = role.String()
		}
		if req.FirstName != nil {
			pu["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			pu["last_name"] = *req.LastName
		}
		if len(pu) > 0 {
			if err := tx.Model(&model.ProfileModel{}).
				Where("id = ?", id).Updates(pu).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, constants.ErrUnknownRole) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Unknown role")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update user")
	}

	resp, err := NewProfileController(ac.DB).loadProfile(id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonUpdated(c, "User updated", resp)
}

// DELETE /api/a/users/:id deactivates, never hard deletes; the account
// stops authenticating but memberships and payments stay auditable.
func (ac *AdminUserController) Deactivate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res := ac.DB.Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonDeleted(c, "User deactivated", nil)
}
