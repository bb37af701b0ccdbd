package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel is the public identity of a user. One row per user; the ID is
// the owning user's ID. Role is set at registration and only the admin edit
// path may change it afterwards.
type ProfileModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name" validate:"required,max=100"`
	LastName    string    `gorm:"size:100;not null" json:"last_name" validate:"required,max=100"`
	Role        string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	PhoneNumber *string   `gorm:"size:30" json:"phone_number,omitempty"`
	Address     *string   `gorm:"type:text" json:"address,omitempty"`
	PhotoURL    *string   `gorm:"type:text" json:"photo_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// StudentDetailModel holds the student-specific block shown on the profile
// page. ID mirrors the user id.
type StudentDetailModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     string    `gorm:"size:50;not null;unique" json:"student_id"`
	Department    string    `gorm:"size:120;not null" json:"department"`
	DegreeProgram string    `gorm:"size:120" json:"degree_program"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentDetailModel) TableName() string {
	return "student_details"
}

// StaffDetailModel: staff-specific block. Admins are also staff, so admin
// registration writes a row here too.
type StaffDetailModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID    string    `gorm:"size:50;not null;unique" json:"staff_id"`
	Department string    `gorm:"size:120;not null" json:"department"`
	Position   string    `gorm:"size:120" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StaffDetailModel) TableName() string {
	return "staff_details"
}
