package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Constants ===================== */

const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOnline       = "online"
)

func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusRejected:
		return true
	}
	return false
}

// CanTransitionPayment: pending → verified|rejected is the happy path.
// verified|rejected → pending is the explicit correction path; a correction
// never touches the linked membership.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case PaymentStatusPending:
		return to == PaymentStatusVerified || to == PaymentStatusRejected
	case PaymentStatusVerified, PaymentStatusRejected:
		return to == PaymentStatusPending
	}
	return false
}

/* ===================== Model ===================== */

// PaymentModel is a submitted proof of payment tied to a membership.
// Rows are never deleted.
type PaymentModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	MembershipID      *uuid.UUID `gorm:"type:uuid;index" json:"membership_id,omitempty"`
	Amount            int        `gorm:"not null;check:amount >= 0" json:"amount"`
	PaymentMethod     string     `gorm:"type:varchar(30);not null;default:'bank_transfer'" json:"payment_method"`
	PaymentDate       time.Time  `gorm:"not null" json:"payment_date"`
	SlipURL           *string    `gorm:"type:text" json:"slip_url,omitempty"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	OrderID           *string    `gorm:"size:100;uniqueIndex" json:"order_id,omitempty"` // online (midtrans) payments only
	VerifiedBy        *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerificationNotes *string    `gorm:"type:text" json:"verification_notes,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
