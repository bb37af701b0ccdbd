package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	"iteamhub_backend/internals/features/memberships/payment/model"
	notifModel "iteamhub_backend/internals/features/notifications/notification/model"
	userModel "iteamhub_backend/internals/features/users/user/model"
	helper "iteamhub_backend/internals/helpers"
)

// SQLite cannot parse the Postgres defaults in the model tags, so the test
// schema is created by hand.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	for _, stmt := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			google_id TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			phone_number TEXT,
			address TEXT,
			photo_url TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE memberships (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			tier TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending_payment',
			amount INTEGER NOT NULL,
			eid TEXT UNIQUE,
			start_date DATETIME,
			end_date DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE eid_counters (
			year INTEGER NOT NULL,
			role_prefix TEXT NOT NULL,
			last_seq INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (year, role_prefix)
		)`,
		`CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			membership_id TEXT,
			amount INTEGER NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'bank_transfer',
			payment_date DATETIME NOT NULL,
			slip_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			order_id TEXT UNIQUE,
			verified_by TEXT,
			verified_at DATETIME,
			verification_notes TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'general',
			is_read INTEGER NOT NULL DEFAULT 0,
			metadata TEXT,
			created_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func createMemberWithMembership(t *testing.T, db *gorm.DB, role constants.Role, status string) (uuid.UUID, *membershipModel.MembershipModel) {
	t.Helper()
	user := userModel.UserModel{
		Email:    uuid.NewString() + "@example.com",
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&userModel.ProfileModel{
		ID:        user.ID,
		FirstName: "Test",
		LastName:  "User",
		Role:      role.String(),
	}).Error)

	m := membershipModel.MembershipModel{
		UserID: user.ID,
		Tier:   membershipModel.TierBronze,
		Status: status,
		Amount: 500,
	}
	require.NoError(t, db.Create(&m).Error)
	return user.ID, &m
}

func TestSubmitBankTransfer(t *testing.T) {
	db := setupTestDB(t)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)

	p, err := SubmitBankTransfer(db, userID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/a.webp")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, p.Status)
	assert.Equal(t, model.PaymentMethodBankTransfer, p.PaymentMethod)
	require.NotNil(t, p.MembershipID)
	assert.Equal(t, m.ID, *p.MembershipID)

	// the submission moves the membership into the approval queue
	var reloaded membershipModel.MembershipModel
	require.NoError(t, db.Take(&reloaded, "id = ?", m.ID).Error)
	assert.Equal(t, membershipModel.MembershipStatusPendingApproval, reloaded.Status)
}

func TestSubmitBankTransfer_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	_, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)
	otherID, _ := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)

	_, err := SubmitBankTransfer(db, otherID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/b.webp")
	assert.ErrorIs(t, err, ErrMembershipNotOwned)
}

func TestVerifyPayment_VerifiedActivatesMembership(t *testing.T) {
	db := setupTestDB(t)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)
	p, err := SubmitBankTransfer(db, userID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/c.webp")
	require.NoError(t, err)

	adminID, _ := createMemberWithMembership(t, db, constants.RoleAdmin, membershipModel.MembershipStatusActive)

	verified, err := VerifyPayment(db, p.ID, model.PaymentStatusVerified, &adminID, "slip checked")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, adminID, *verified.VerifiedBy)
	require.NotNil(t, verified.VerifiedAt)

	var reloaded membershipModel.MembershipModel
	require.NoError(t, db.Take(&reloaded, "id = ?", m.ID).Error)
	assert.Equal(t, membershipModel.MembershipStatusActive, reloaded.Status)
	require.NotNil(t, reloaded.EID)

	// the member hears about it
	var n int64
	require.NoError(t, db.Model(&notifModel.NotificationModel{}).
		Where("user_id = ? AND type = ?", userID, notifModel.NotificationTypeMembership).
		Count(&n).Error)
	assert.Positive(t, n)
}

func TestVerifyPayment_RejectedLeavesMembershipAlone(t *testing.T) {
	db := setupTestDB(t)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)
	p, err := SubmitBankTransfer(db, userID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/d.webp")
	require.NoError(t, err)

	rejected, err := VerifyPayment(db, p.ID, model.PaymentStatusRejected, nil, "amount mismatch")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRejected, rejected.Status)

	var reloaded membershipModel.MembershipModel
	require.NoError(t, db.Take(&reloaded, "id = ?", m.ID).Error)
	assert.Equal(t, membershipModel.MembershipStatusPendingApproval, reloaded.Status)
	assert.Nil(t, reloaded.EID)
}

func TestVerifyPayment_CorrectionBackToPending(t *testing.T) {
	db := setupTestDB(t)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)
	p, err := SubmitBankTransfer(db, userID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/e.webp")
	require.NoError(t, err)

	_, err = VerifyPayment(db, p.ID, model.PaymentStatusVerified, nil, "")
	require.NoError(t, err)

	// correction clears the decision fields but never touches the membership
	corrected, err := VerifyPayment(db, p.ID, model.PaymentStatusPending, nil, "re-examining slip")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, corrected.Status)
	assert.Nil(t, corrected.VerifiedBy)
	assert.Nil(t, corrected.VerifiedAt)

	var reloaded membershipModel.MembershipModel
	require.NoError(t, db.Take(&reloaded, "id = ?", m.ID).Error)
	assert.Equal(t, membershipModel.MembershipStatusActive, reloaded.Status)
}

func TestVerifyPayment_InvalidInputs(t *testing.T) {
	db := setupTestDB(t)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)
	p, err := SubmitBankTransfer(db, userID, m.ID, 500, time.Now().UTC(), "https://cdn.example/slips/f.webp")
	require.NoError(t, err)

	_, err = VerifyPayment(db, p.ID, "approved", nil, "")
	assert.Error(t, err)

	_, err = VerifyPayment(db, uuid.New(), model.PaymentStatusVerified, nil, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, model.CanTransitionPayment(model.PaymentStatusPending, model.PaymentStatusVerified))
	assert.True(t, model.CanTransitionPayment(model.PaymentStatusPending, model.PaymentStatusRejected))
	assert.True(t, model.CanTransitionPayment(model.PaymentStatusVerified, model.PaymentStatusPending))
	assert.True(t, model.CanTransitionPayment(model.PaymentStatusRejected, model.PaymentStatusPending))
	assert.False(t, model.CanTransitionPayment(model.PaymentStatusVerified, model.PaymentStatusRejected))
	assert.False(t, model.CanTransitionPayment(model.PaymentStatusRejected, model.PaymentStatusVerified))
}

func TestCreateOnlinePayment_GatewayFailureIsRetryable(t *testing.T) {
	db := setupTestDB(t)
	InitMidtrans("test-server-key", false)
	userID, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)

	// No live gateway behind a test key, so the Snap call fails. The pending
	// row must not survive the failed attempt.
	_, _, _, err := CreateOnlinePayment(db, userID, m.ID, "Test User", "pay@example.com")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.PaymentModel{}).Where("membership_id = ?", m.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "failed attempt left an orphan payment row")

	// The retry must reach the gateway again instead of dying on the
	// order_id unique index.
	_, _, _, err = CreateOnlinePayment(db, userID, m.ID, "Test User", "pay@example.com")
	require.Error(t, err)
	assert.False(t, helper.IsUniqueViolation(err))

	require.NoError(t, db.Model(&model.PaymentModel{}).Where("membership_id = ?", m.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOnlinePayment_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	InitMidtrans("test-server-key", false)
	_, m := createMemberWithMembership(t, db, constants.RoleStudent, membershipModel.MembershipStatusPendingPayment)

	_, _, _, err := CreateOnlinePayment(db, uuid.New(), m.ID, "Intruder", "other@example.com")
	assert.ErrorIs(t, err, ErrMembershipNotOwned)
}
