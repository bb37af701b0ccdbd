package dto

/* ===================== Registration ===================== */

type RegisterStudentRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,max=30"`
	StudentID      string `json:"student_id" validate:"required,max=50"`
	Department     string `json:"department" validate:"required,max=120"`
	DegreeProgram  string `json:"degree_program" validate:"omitempty,max=120"`
	Level          int    `json:"level" validate:"omitempty,gte=1,lte=6"`
	MembershipType string `json:"membership_type" validate:"required,oneof=1year 2year 3year"`
}

type RegisterStaffRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,max=30"`
	StaffID        string `json:"staff_id" validate:"required,max=50"`
	Department     string `json:"department" validate:"required,max=120"`
	Position       string `json:"position" validate:"omitempty,max=120"`
	MembershipType string `json:"membership_type" validate:"required,oneof=1year 2year 3year"`
}

// Admin sign-up needs the registration code on top of the staff fields;
// the membership type is fixed (gold, no fee) so it is not accepted here.
type RegisterAdminRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
	StaffID     string `json:"staff_id" validate:"required,max=50"`
	Department  string `json:"department" validate:"required,max=120"`
	Position    string `json:"position" validate:"omitempty,max=120"`
	AdminCode   string `json:"admin_code" validate:"required"`
}

/* ===================== Session ===================== */

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
