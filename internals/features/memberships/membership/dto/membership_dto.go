package dto

import (
	"time"

	"github.com/google/uuid"

	"iteamhub_backend/internals/features/memberships/membership/model"
)

/* ===================== Requests ===================== */

// AdminUpdateMembershipRequest: the admin edit dialog. Fields left empty
// are not changed; end_date uses YYYY-MM-DD.
type AdminUpdateMembershipRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending_payment pending_approval active expired"`
	Tier    string `json:"tier" validate:"omitempty,oneof=bronze silver gold"`
	EndDate string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *AdminUpdateMembershipRequest) ParsedEndDate() (*time.Time, error) {
	if r.EndDate == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* ===================== Responses ===================== */

type MembershipResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Tier      string     `json:"tier"`
	Status    string     `json:"status"`
	Amount    int        `json:"amount"`
	EID       *string    `json:"eid,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MembershipWithProfileResponse: admin listing row, membership + owner.
type MembershipWithProfileResponse struct {
	MembershipResponse
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func FromMembershipModel(m *model.MembershipModel) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Tier:      m.Tier,
		Status:    m.Status,
		Amount:    m.Amount,
		EID:       m.EID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
	}
}
