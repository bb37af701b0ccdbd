package user

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	membershipService "iteamhub_backend/internals/features/memberships/membership/service"
	authHelper "iteamhub_backend/internals/features/users/auth/helper"
	userModel "iteamhub_backend/internals/features/users/user/model"
)

type UserSeed struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	StudentID      string `json:"student_id,omitempty"`
	StaffID        string `json:"staff_id,omitempty"`
	Department     string `json:"department"`
	Position       string `json:"position,omitempty"`
	DegreeProgram  string `json:"degree_program,omitempty"`
	Level          int    `json:"level,omitempty"`
	MembershipType string `json:"membership_type,omitempty"`
}

// SeedUsersFromJSON creates the accounts listed in the file, skipping any
// email that already exists. Admins get a free gold membership activated
// immediately, everyone else starts at pending_payment.
func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ failed to read seed file %s: %v", filePath, err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(raw, &inputs); err != nil {
		log.Fatalf("❌ failed to decode %s: %v", filePath, err)
	}

	for _, data := range inputs {
		var existing userModel.UserModel
		if err := db.Where("email = ?", data.Email).First(&existing).Error; err == nil {
			log.Printf("ℹ️ user '%s' already exists, skipped", data.Email)
			continue
		}

		role, err := constants.ParseRole(data.Role)
		if err != nil {
			log.Printf("❌ user '%s': %v", data.Email, err)
			continue
		}

		hashed, err := authHelper.HashPassword(data.Password)
		if err != nil {
			log.Printf("❌ failed to hash password for '%s': %v", data.Email, err)
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			user := userModel.UserModel{
				Email:    data.Email,
				Password: hashed,
				IsActive: true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if err := tx.Create(&userModel.ProfileModel{
				ID:        user.ID,
				FirstName: data.FirstName,
				LastName:  data.LastName,
				Role:      role.String(),
			}).Error; err != nil {
				return err
			}
			if err := seedDetail(tx, user.ID, role, data); err != nil {
				return err
			}
			return seedMembership(tx, user.ID, role, data.MembershipType)
		})
		if err != nil {
			log.Printf("❌ failed to insert user '%s': %v", data.Email, err)
		} else {
			log.Printf("✅ seeded user '%s' (%s)", data.Email, role)
		}
	}
}

func seedDetail(tx *gorm.DB, userID uuid.UUID, role constants.Role, data UserSeed) error {
	if role == constants.RoleStudent {
		level := data.Level
		if level == 0 {
			level = 1
		}
		return tx.Create(&userModel.StudentDetailModel{
			ID:            userID,
			StudentID:     data.StudentID,
			Department:    data.Department,
			DegreeProgram: data.DegreeProgram,
			Level:         level,
		}).Error
	}
	return tx.Create(&userModel.StaffDetailModel{
		ID:         userID,
		StaffID:    data.StaffID,
		Department: data.Department,
		Position:   data.Position,
	}).Error
}

func seedMembership(tx *gorm.DB, userID uuid.UUID, role constants.Role, membershipType string) error {
	plan := membershipService.MembershipPlan{Tier: membershipModel.TierGold, Amount: 0, Years: 3}
	if !role.BypassesPayment() {
		var err error
		if plan, err = membershipService.PlanForMembershipType(membershipType); err != nil {
			return err
		}
	}
	m, err := membershipService.CreateForRegistration(tx, userID, plan)
	if err != nil {
		return err
	}
	if role.BypassesPayment() {
		_, err = membershipService.ActivateMembership(tx, m.ID)
	}
	return err
}
