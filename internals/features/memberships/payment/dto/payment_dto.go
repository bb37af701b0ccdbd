package dto

import (
	"time"

	"github.com/google/uuid"

	"iteamhub_backend/internals/features/memberships/payment/model"
)

/* ===================== Requests ===================== */

// SubmitPaymentRequest accompanies the multipart slip upload.
type SubmitPaymentRequest struct {
	MembershipID string `form:"membership_id" validate:"required,uuid4"`
	Amount       int    `form:"amount" validate:"required,gt=0"`
	PaymentDate  string `form:"payment_date" validate:"required,datetime=2006-01-02"`
}

func (r *SubmitPaymentRequest) ParsedDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.PaymentDate)
}

type CreateOnlinePaymentRequest struct {
	MembershipID string `json:"membership_id" validate:"required,uuid4"`
}

type VerifyPaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

/* ===================== Responses ===================== */

type PaymentResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	MembershipID      *uuid.UUID `json:"membership_id,omitempty"`
	Amount            int        `json:"amount"`
	PaymentMethod     string     `json:"payment_method"`
	PaymentDate       time.Time  `json:"payment_date"`
	SlipURL           *string    `json:"slip_url,omitempty"`
	Status            string     `json:"status"`
	OrderID           *string    `json:"order_id,omitempty"`
	VerifiedBy        *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerificationNotes *string    `json:"verification_notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// PaymentWithProfileResponse: admin verification queue row.
type PaymentWithProfileResponse struct {
	PaymentResponse
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OnlinePaymentResponse carries the gateway checkout handle.
type OnlinePaymentResponse struct {
	Payment     PaymentResponse `json:"payment"`
	SnapToken   string          `json:"snap_token"`
	RedirectURL string          `json:"redirect_url"`
}

func FromPaymentModel(p *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		MembershipID:      p.MembershipID,
		Amount:            p.Amount,
		PaymentMethod:     p.PaymentMethod,
		PaymentDate:       p.PaymentDate,
		SlipURL:           p.SlipURL,
		Status:            p.Status,
		OrderID:           p.OrderID,
		VerifiedBy:        p.VerifiedBy,
		VerifiedAt:        p.VerifiedAt,
		VerificationNotes: p.VerificationNotes,
		CreatedAt:         p.CreatedAt,
	}
}
