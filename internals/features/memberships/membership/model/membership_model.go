package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Status & tier constants ===================== */

const (
	MembershipStatusPendingPayment  = "pending_payment"
	MembershipStatusPendingApproval = "pending_approval"
	MembershipStatusActive          = "active"
	MembershipStatusExpired         = "expired"
)

const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// membershipTransitions is the single source of truth for status changes.
// Renewal is a new row, so expired has no outgoing edges.
var membershipTransitions = map[string][]string{
	MembershipStatusPendingPayment:  {MembershipStatusPendingApproval, MembershipStatusActive, MembershipStatusExpired},
	MembershipStatusPendingApproval: {MembershipStatusActive, MembershipStatusExpired, MembershipStatusPendingPayment},
	MembershipStatusActive:          {MembershipStatusExpired},
	MembershipStatusExpired:         {},
}

func IsValidMembershipStatus(s string) bool {
	_, ok := membershipTransitions[s]
	return ok
}

func IsValidTier(t string) bool {
	return t == TierBronze || t == TierSilver || t == TierGold
}

// CanTransition reports whether status may move from → to. Same-state writes
// are allowed (idempotent updates of other fields).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range membershipTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var ErrInvalidTransition = fmt.Errorf("invalid membership status transition")

/* ===================== Model ===================== */

// MembershipModel is one subscription period of a user. A user accumulates
// rows over time (renewals); the current membership is the latest created.
// EID is assigned exactly once, in the same update that first sets the
// status to active, and is immutable afterwards (unique index as backstop).
type MembershipModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Tier      string     `gorm:"type:varchar(20);not null" json:"tier"`
	Status    string     `gorm:"type:varchar(30);not null;default:'pending_payment'" json:"status"`
	Amount    int        `gorm:"not null;check:amount >= 0" json:"amount"`
	EID       *string    `gorm:"column:eid;size:40;uniqueIndex" json:"eid,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MembershipModel) TableName() string {
	return "memberships"
}

func (m *MembershipModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *MembershipModel) IsActive() bool {
	return m.Status == MembershipStatusActive
}
