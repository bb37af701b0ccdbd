package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/users/user/dto"
	"iteamhub_backend/internals/features/users/user/model"
	helper "iteamhub_backend/internals/helpers"
)

type ProfileController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{DB: db, Validate: validator.New()}
}

func (pc *ProfileController) loadProfile(userID uuid.UUID) (*dto.ProfileResponse, error) {
	var user model.UserModel
	if err := pc.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	var profile model.ProfileModel
	if err := pc.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	var student *model.StudentDetailModel
	var staff *model.StaffDetailModel
	switch profile.Role {
	case constants.RoleStudent.String():
		var s model.StudentDetailModel
		if err := pc.DB.First(&s, "id = ?", userID).Error; err == nil {
			student = &s
		}
	default:
		var s model.StaffDetailModel
		if err := pc.DB.First(&s, "id = ?", userID).Error; err == nil {
			staff = &s
		}
	}

	resp := dto.BuildProfileResponse(&user, &profile, student, staff)
	return &resp, nil
}

/* ===================== Member endpoints ===================== */

// GET /api/u/profile
func (pc *ProfileController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	resp, err := pc.loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Profile not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}
	return helper.JsonOK(c, "OK", resp)
}

// PUT /api/u/profile
func (pc *ProfileController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := pc.Validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	var profile model.ProfileModel
	if err := pc.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Profile not found")
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName
		}
		if req.PhoneNumber != nil {
			updates["phone_number"] = *req.PhoneNumber
		}
		if req.Address != nil {
			updates["address"] = *req.Address
		}
		if len(updates) > 0 {
			if err := tx.Model(&profile).Updates(updates).Error; err != nil {
				return err
			}
		}

		// role determines which detail block is writable
		if req.Student != nil && profile.Role == constants.RoleStudent.String() {
			su := map[string]any{}
			if req.Student.Department != nil {
				su["department"] = *req.Student.Department
			}
			if req.Student.DegreeProgram != nil {
				su["degree_program"] = *req.Student.DegreeProgram
			}
			if req.Student.Level != nil {
				su["level"] = *req.Student.Level
			}
			if len(su) > 0 {
				if err := tx.Model(&model.StudentDetailModel{}).
					Where("id = ?", userID).Updates(su).Error; err != nil {
					return err
				}
			}
		}
		if req.Staff != nil && profile.Role != constants.RoleStudent.String() {
			su := map[string]any{}
			if req.Staff.Department != nil {
				su["department"] = *req.Staff.Department
			}
			if req.Staff.Position != nil {
				su["position"] = *req.Staff.Position
			}
			if len(su) > 0 {
				if err := tx.Model(&model.StaffDetailModel{}).
					Where("id = ?", userID).Updates(su).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[PROFILE] update %s failed: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	resp, err := pc.loadProfile(userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}
	return helper.JsonUpdated(c, "Profile updated", resp)
}

// POST /api/u/profile/photo (multipart: photo)
func (pc *ProfileController) UploadPhoto(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Photo file is required")
	}
	url, err := helper.UploadProfilePhoto(userID, fh)
	if err != nil {
		log.Printf("[PROFILE] photo upload for %s failed: %v", userID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to store photo")
	}

	if err := pc.DB.Model(&model.ProfileModel{}).
		Where("id = ?", userID).
		Update("photo_url", url).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save photo URL")
	}
	return helper.JsonUpdated(c, "Photo uploaded", fiber.Map{"photo_url": url})
}
