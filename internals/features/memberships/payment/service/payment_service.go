package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	membershipService "iteamhub_backend/internals/features/memberships/membership/service"
	"iteamhub_backend/internals/features/memberships/payment/model"
	notifModel "iteamhub_backend/internals/features/notifications/notification/model"
	notifService "iteamhub_backend/internals/features/notifications/notification/service"
	helper "iteamhub_backend/internals/helpers"
)

// ErrCascadeFailed marks the one deliberate two-step failure in the app:
// the payment row is already verified but membership activation did not go
// through. Safe to retry, activation is idempotent.
var ErrCascadeFailed = errors.New("payment verified but membership activation failed")

var ErrInvalidPaymentTransition = errors.New("invalid payment status transition")

var ErrMembershipNotOwned = errors.New("membership does not belong to the user")

/* ==========================
   Submission
========================== */

// SubmitBankTransfer records a slip-backed payment for a membership and
// moves the membership to pending_approval, both in one transaction.
func SubmitBankTransfer(db *gorm.DB, userID, membershipID uuid.UUID, amount int, paymentDate time.Time, slipURL string) (*model.PaymentModel, error) {
	var out model.PaymentModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var m membershipModel.MembershipModel
		if err := tx.Take(&m, "id = ?", membershipID).Error; err != nil {
			return err
		}
		if m.UserID != userID {
			return ErrMembershipNotOwned
		}

		p := model.PaymentModel{
			UserID:        userID,
			MembershipID:  &membershipID,
			Amount:        amount,
			PaymentMethod: model.PaymentMethodBankTransfer,
			PaymentDate:   paymentDate,
			SlipURL:       &slipURL,
			Status:        model.PaymentStatusPending,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		if m.Status == membershipModel.MembershipStatusPendingPayment {
			if err := membershipService.Transition(tx, membershipID, membershipModel.MembershipStatusPendingApproval); err != nil {
				return err
			}
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ==========================
   Verification workflow
========================== */

// VerifyPayment runs the admin verification state machine:
//
//	pending → verified : payment row updated atomically, then the linked
//	                     membership is activated (E-ID assigned on first
//	                     activation). A failed cascade returns
//	                     ErrCascadeFailed with the payment left verified.
//	pending → rejected : payment row only; membership untouched.
//	verified|rejected → pending : explicit correction; membership untouched.
//
// verifiedBy may be nil for gateway-originated verifications (webhooks).
func VerifyPayment(db *gorm.DB, paymentID uuid.UUID, newStatus string, verifiedBy *uuid.UUID, notes string) (*model.PaymentModel, error) {
	if !model.IsValidPaymentStatus(newStatus) {
		return nil, fmt.Errorf("invalid payment status %q", newStatus)
	}

	// Step 1: the payment row, atomically.
	var p model.PaymentModel
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := helper.LockForUpdate(tx).
			Take(&p, "id = ?", paymentID).Error; err != nil {
			return err
		}
		if !model.CanTransitionPayment(p.Status, newStatus) {
			return fmt.Errorf("%w: %s → %s", ErrInvalidPaymentTransition, p.Status, newStatus)
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": newStatus}
		switch newStatus {
		case model.PaymentStatusVerified, model.PaymentStatusRejected:
			updates["verified_by"] = verifiedBy
			updates["verified_at"] = now
			p.VerifiedBy = verifiedBy
			p.VerifiedAt = &now
		case model.PaymentStatusPending:
			// correction: clear the decision fields
			updates["verified_by"] = nil
			updates["verified_at"] = nil
			p.VerifiedBy = nil
			p.VerifiedAt = nil
		}
		if notes != "" {
			updates["verification_notes"] = notes
			p.VerificationNotes = &notes
		}

		if err := tx.Model(&model.PaymentModel{}).
			Where("id = ?", p.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		p.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 2: the cascade. Deliberately outside the first transaction so a
	// failure here leaves the payment verified and the membership pending,
	// the recoverable inconsistency the admin must see, not a rollback.
	if newStatus == model.PaymentStatusVerified && p.MembershipID != nil {
		if _, aerr := membershipService.ActivateMembership(db, *p.MembershipID); aerr != nil {
			return &p, fmt.Errorf("%w: %v", ErrCascadeFailed, aerr)
		}
		notifService.Notify(db, &p.UserID, notifModel.NotificationTypeMembership,
			"Membership activated",
			"Your payment was verified and your membership is now active.",
			map[string]any{"payment_id": p.ID, "membership_id": *p.MembershipID})
	}

	switch newStatus {
	case model.PaymentStatusVerified:
		notifService.Notify(db, &p.UserID, notifModel.NotificationTypePayment,
			"Payment verified", "Your payment has been verified.",
			map[string]any{"payment_id": p.ID})
	case model.PaymentStatusRejected:
		msg := "Your payment was rejected."
		if notes != "" {
			msg = "Your payment was rejected: " + notes
		}
		notifService.Notify(db, &p.UserID, notifModel.NotificationTypePayment,
			"Payment rejected", msg,
			map[string]any{"payment_id": p.ID})
	}

	return &p, nil
}
