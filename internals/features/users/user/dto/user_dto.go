package dto

import (
	"time"

	"github.com/google/uuid"

	"iteamhub_backend/internals/features/users/user/model"
)

/* ===================== Requests ===================== */

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	// role-specific blocks, applied only when the caller has that role
	Student *StudentDetailPatch `json:"student,omitempty"`
	Staff   *StaffDetailPatch   `json:"staff,omitempty"`
}

type StudentDetailPatch struct {
	Department    *string `json:"department" validate:"omitempty,max=120"`
	DegreeProgram *string `json:"degree_program" validate:"omitempty,max=120"`
	Level         *int    `json:"level" validate:"omitempty,gte=1,lte=6"`
}

type StaffDetailPatch struct {
	Department *string `json:"department" validate:"omitempty,max=120"`
	Position   *string `json:"position" validate:"omitempty,max=120"`
}

// AdminUpdateUserRequest: the admin edit dialog for another user's account.
type AdminUpdateUserRequest struct {
	Role      *string `json:"role" validate:"omitempty,oneof=student staff admin"`
	IsActive  *bool   `json:"is_active"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

/* ===================== Responses ===================== */

type ProfileResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Email       string                    `json:"email"`
	FirstName   string                    `json:"first_name"`
	LastName    string                    `json:"last_name"`
	Role        string                    `json:"role"`
	PhoneNumber *string                   `json:"phone_number,omitempty"`
	Address     *string                   `json:"address,omitempty"`
	PhotoURL    *string                   `json:"photo_url,omitempty"`
	IsActive    bool                      `json:"is_active"`
	Student     *model.StudentDetailModel `json:"student,omitempty"`
	Staff       *model.StaffDetailModel   `json:"staff,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// UserListItem: admin user table row.
type UserListItem struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleCounts: dashboard headline numbers.
type RoleCounts struct {
	Total    int64 `json:"total"`
	Students int64 `json:"students"`
	Staff    int64 `json:"staff"`
	Admins   int64 `json:"admins"`
}

func BuildProfileResponse(u *model.UserModel, p *model.ProfileModel, student *model.StudentDetailModel, staff *model.StaffDetailModel) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        p.Role,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		PhotoURL:    p.PhotoURL,
		IsActive:    u.IsActive,
		Student:     student,
		Staff:       staff,
		CreatedAt:   u.CreatedAt,
	}
}
