package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/memberships/membership/model"
	userModel "iteamhub_backend/internals/features/users/user/model"
	helper "iteamhub_backend/internals/helpers"
)

/* ==========================
   Plans
========================== */

// MembershipPlan maps a registration membership_type to tier, fee and term.
type MembershipPlan struct {
	Tier   string
	Amount int
	Years  int
}

var plans = map[string]MembershipPlan{
	"1year": {Tier: model.TierBronze, Amount: 500, Years: 1},
	"2year": {Tier: model.TierSilver, Amount: 1000, Years: 2},
	"3year": {Tier: model.TierGold, Amount: 1500, Years: 3},
}

func PlanForMembershipType(membershipType string) (MembershipPlan, error) {
	p, ok := plans[membershipType]
	if !ok {
		return MembershipPlan{}, fmt.Errorf("unknown membership type %q", membershipType)
	}
	return p, nil
}

// TierDurationYears: term of a membership once activated.
func TierDurationYears(tier string) int {
	switch tier {
	case model.TierSilver:
		return 2
	case model.TierGold:
		return 3
	default:
		return 1
	}
}

/* ==========================
   Creation
========================== */

// CreateForRegistration inserts the membership row written during sign-up:
// pending_payment with no E-ID. Admin self-registration bypasses payment;
// the caller activates it right after through the shared path.
func CreateForRegistration(tx *gorm.DB, userID uuid.UUID, plan MembershipPlan) (*model.MembershipModel, error) {
	m := model.MembershipModel{
		UserID: userID,
		Tier:   plan.Tier,
		Amount: plan.Amount,
		Status: model.MembershipStatusPendingPayment,
	}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

/* ==========================
   Shared activation path
========================== */

// ActivateMembership is the single way a membership becomes active; the
// payment-verification cascade and the admin edit both funnel through it.
// Idempotent: an already-active membership is returned unchanged, and the
// E-ID is assigned at most once, in the same update that sets the status.
func ActivateMembership(db *gorm.DB, membershipID uuid.UUID) (*model.MembershipModel, error) {
	var out model.MembershipModel
	err := db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMembership(tx, membershipID)
		if err != nil {
			return err
		}
		if err := activateLocked(tx, m); err != nil {
			return err
		}
		out = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func lockMembership(tx *gorm.DB, id uuid.UUID) (*model.MembershipModel, error) {
	var m model.MembershipModel
	if err := helper.LockForUpdate(tx).
		Take(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// activateLocked does the actual work on a row already locked by the caller.
func activateLocked(tx *gorm.DB, m *model.MembershipModel) error {
	if m.Status == model.MembershipStatusActive {
		return nil // no-op; eid untouched
	}
	if !model.CanTransition(m.Status, model.MembershipStatusActive) {
		return fmt.Errorf("%w: %s → %s", model.ErrInvalidTransition, m.Status, model.MembershipStatusActive)
	}

	now := time.Now().UTC()
	updates := map[string]any{"status": model.MembershipStatusActive}
	if m.StartDate == nil {
		updates["start_date"] = now
		m.StartDate = &now
	}
	if m.EndDate == nil {
		end := now.AddDate(TierDurationYears(m.Tier), 0, 0)
		updates["end_date"] = end
		m.EndDate = &end
	}

	if m.EID == nil {
		var profile userModel.ProfileModel
		if err := tx.Take(&profile, "id = ?", m.UserID).Error; err != nil {
			return fmt.Errorf("load profile for E-ID: %w", err)
		}
		role, err := constants.ParseRole(profile.Role)
		if err != nil {
			return err
		}
		eid, err := AllocateEID(tx, role, now.Year())
		if err != nil {
			return fmt.Errorf("allocate E-ID: %w", err)
		}
		updates["eid"] = eid
		m.EID = &eid
	}

	if err := tx.Model(&model.MembershipModel{}).
		Where("id = ?", m.ID).
		Updates(updates).Error; err != nil {
		return err
	}
	m.Status = model.MembershipStatusActive
	return nil
}

/* ==========================
   Admin edit
========================== */

// AdminUpdate applies an admin's direct edit of status/tier/end_date.
// A transition into active goes through the activation path above so both
// triggers behave identically.
func AdminUpdate(db *gorm.DB, membershipID uuid.UUID, status, tier string, endDate *time.Time) (*model.MembershipModel, error) {
	if !model.IsValidMembershipStatus(status) {
		return nil, fmt.Errorf("invalid membership status %q", status)
	}
	if tier != "" && !model.IsValidTier(tier) {
		return nil, fmt.Errorf("invalid tier %q", tier)
	}

	var out model.MembershipModel
	err := db.Transaction(func(tx *gorm.DB) error {
		m, err := lockMembership(tx, membershipID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if tier != "" && tier != m.Tier {
			updates["tier"] = tier
			m.Tier = tier
		}
		if endDate != nil {
			updates["end_date"] = *endDate
			m.EndDate = endDate
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.MembershipModel{}).
				Where("id = ?", m.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if status == model.MembershipStatusActive {
			if err := activateLocked(tx, m); err != nil {
				return err
			}
		} else if status != m.Status {
			if !model.CanTransition(m.Status, status) {
				return fmt.Errorf("%w: %s → %s", model.ErrInvalidTransition, m.Status, status)
			}
			if err := tx.Model(&model.MembershipModel{}).
				Where("id = ?", m.ID).
				Update("status", status).Error; err != nil {
				return err
			}
			m.Status = status
		}

		out = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Transition moves a membership to a non-active status via the FSM
// (submission flows use it for pending_payment → pending_approval).
func Transition(tx *gorm.DB, membershipID uuid.UUID, to string) error {
	if !model.IsValidMembershipStatus(to) {
		return fmt.Errorf("invalid membership status %q", to)
	}
	m, err := lockMembership(tx, membershipID)
	if err != nil {
		return err
	}
	if m.Status == to {
		return nil
	}
	if !model.CanTransition(m.Status, to) {
		return fmt.Errorf("%w: %s → %s", model.ErrInvalidTransition, m.Status, to)
	}
	return tx.Model(&model.MembershipModel{}).
		Where("id = ?", m.ID).
		Update("status", to).Error
}

/* ==========================
   Reads
========================== */

// CurrentMembership: the most recently created row for the user.
func CurrentMembership(db *gorm.DB, userID uuid.UUID) (*model.MembershipModel, error) {
	var m model.MembershipModel
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// HasActiveMembership mirrors the old backend-side predicate: active status
// and not past its end date.
func HasActiveMembership(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&model.MembershipModel{}).
		Where("user_id = ? AND status = ?", userID, model.MembershipStatusActive).
		Where("end_date IS NULL OR end_date >= ?", time.Now().UTC()).
		Count(&count).Error
	return count > 0, err
}

/* ==========================
   Expiry sweep
========================== */

// ExpireOverdueMemberships flips active memberships past their end date to
// expired. Run from the scheduler; returns how many rows changed.
func ExpireOverdueMemberships(db *gorm.DB) (int64, error) {
	res := db.Model(&model.MembershipModel{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?",
			model.MembershipStatusActive, time.Now().UTC()).
		Update("status", model.MembershipStatusExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[INFO] expired %d overdue membership(s)", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// ErrNotFound re-exported for controllers that don't want to import gorm.
var ErrNotFound = gorm.ErrRecordNotFound

func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
