package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/memberships/membership/model"
)

func TestPlanForMembershipType(t *testing.T) {
	tests := []struct {
		membershipType string
		tier           string
		amount         int
		years          int
	}{
		{"1year", model.TierBronze, 500, 1},
		{"2year", model.TierSilver, 1000, 2},
		{"3year", model.TierGold, 1500, 3},
	}
	for _, tc := range tests {
		t.Run(tc.membershipType, func(t *testing.T) {
			plan, err := PlanForMembershipType(tc.membershipType)
			require.NoError(t, err)
			assert.Equal(t, tc.tier, plan.Tier)
			assert.Equal(t, tc.amount, plan.Amount)
			assert.Equal(t, tc.years, plan.Years)
		})
	}

	_, err := PlanForMembershipType("lifetime")
	assert.Error(t, err)
}

func TestActivateMembership_AssignsEIDOnce(t *testing.T) {
	db := setupTestDB(t)
	userID := createMember(t, db, constants.RoleStudent)
	m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusPendingApproval)

	activated, err := ActivateMembership(db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MembershipStatusActive, activated.Status)
	require.NotNil(t, activated.EID)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("ITS/%d/STU/0001", year), *activated.EID)
	require.NotNil(t, activated.StartDate)
	require.NotNil(t, activated.EndDate)
	// bronze runs one year
	assert.WithinDuration(t, activated.StartDate.AddDate(1, 0, 0), *activated.EndDate, time.Second)

	// activating again is a no-op and never reissues the E-ID
	again, err := ActivateMembership(db, m.ID)
	require.NoError(t, err)
	require.NotNil(t, again.EID)
	assert.Equal(t, *activated.EID, *again.EID)
}

func TestActivateMembership_RoleDrivesPrefix(t *testing.T) {
	db := setupTestDB(t)

	staffID := createMember(t, db, constants.RoleStaff)
	sm := createMembership(t, db, staffID, model.TierSilver, model.MembershipStatusPendingApproval)
	activated, err := ActivateMembership(db, sm.ID)
	require.NoError(t, err)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("ITS/%d/STF/0001", year), *activated.EID)
	// silver runs two years
	assert.WithinDuration(t, activated.StartDate.AddDate(2, 0, 0), *activated.EndDate, time.Second)
}

func TestActivateMembership_RejectedFromExpired(t *testing.T) {
	db := setupTestDB(t)
	userID := createMember(t, db, constants.RoleStudent)
	m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusExpired)

	_, err := ActivateMembership(db, m.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestAdminUpdate(t *testing.T) {
	t.Run("activation through admin edit issues an E-ID", func(t *testing.T) {
		db := setupTestDB(t)
		userID := createMember(t, db, constants.RoleStudent)
		m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusPendingPayment)

		out, err := AdminUpdate(db, m.ID, model.MembershipStatusActive, model.TierGold, nil)
		require.NoError(t, err)
		assert.Equal(t, model.MembershipStatusActive, out.Status)
		assert.Equal(t, model.TierGold, out.Tier)
		require.NotNil(t, out.EID)
	})

	t.Run("explicit end date wins over the tier term", func(t *testing.T) {
		db := setupTestDB(t)
		userID := createMember(t, db, constants.RoleStudent)
		m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusPendingApproval)

		end := time.Now().UTC().AddDate(0, 6, 0).Truncate(time.Second)
		out, err := AdminUpdate(db, m.ID, model.MembershipStatusActive, "", datePtr(end))
		require.NoError(t, err)
		require.NotNil(t, out.EndDate)
		assert.WithinDuration(t, end, *out.EndDate, time.Second)
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		db := setupTestDB(t)
		userID := createMember(t, db, constants.RoleStudent)

		active := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusActive)
		_, err := AdminUpdate(db, active.ID, model.MembershipStatusPendingPayment, "", nil)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)

		expired := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusExpired)
		_, err = AdminUpdate(db, expired.ID, model.MembershipStatusActive, "", nil)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	})

	t.Run("unknown status and tier are rejected up front", func(t *testing.T) {
		db := setupTestDB(t)
		userID := createMember(t, db, constants.RoleStudent)
		m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusPendingPayment)

		_, err := AdminUpdate(db, m.ID, "cancelled", "", nil)
		assert.Error(t, err)
		_, err = AdminUpdate(db, m.ID, model.MembershipStatusActive, "platinum", nil)
		assert.Error(t, err)
	})
}

func TestMembershipTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{model.MembershipStatusPendingPayment, model.MembershipStatusPendingApproval},
		{model.MembershipStatusPendingPayment, model.MembershipStatusActive},
		{model.MembershipStatusPendingApproval, model.MembershipStatusActive},
		{model.MembershipStatusPendingApproval, model.MembershipStatusPendingPayment},
		{model.MembershipStatusActive, model.MembershipStatusExpired},
	}
	for _, tc := range allowed {
		assert.True(t, model.CanTransition(tc.from, tc.to), "%s → %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{model.MembershipStatusActive, model.MembershipStatusPendingPayment},
		{model.MembershipStatusActive, model.MembershipStatusPendingApproval},
		{model.MembershipStatusExpired, model.MembershipStatusActive},
		{model.MembershipStatusExpired, model.MembershipStatusPendingPayment},
	}
	for _, tc := range denied {
		assert.False(t, model.CanTransition(tc.from, tc.to), "%s → %s should be denied", tc.from, tc.to)
	}
}

func TestCurrentAndActiveMembership(t *testing.T) {
	db := setupTestDB(t)
	userID := createMember(t, db, constants.RoleStudent)

	old := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusExpired)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)
	latest := createMembership(t, db, userID, model.TierSilver, model.MembershipStatusPendingPayment)

	current, err := CurrentMembership(db, userID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, current.ID)

	active, err := HasActiveMembership(db, userID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = ActivateMembership(db, latest.ID)
	require.NoError(t, err)
	active, err = HasActiveMembership(db, userID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestHasActiveMembership_PastEndDate(t *testing.T) {
	db := setupTestDB(t)
	userID := createMember(t, db, constants.RoleStudent)
	m := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusActive)
	require.NoError(t, db.Model(m).Update("end_date", time.Now().UTC().Add(-time.Hour)).Error)

	active, err := HasActiveMembership(db, userID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestExpireOverdueMemberships(t *testing.T) {
	db := setupTestDB(t)
	userID := createMember(t, db, constants.RoleStudent)

	overdue := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusActive)
	require.NoError(t, db.Model(overdue).Update("end_date", time.Now().UTC().Add(-time.Hour)).Error)
	current := createMembership(t, db, userID, model.TierBronze, model.MembershipStatusActive)
	require.NoError(t, db.Model(current).Update("end_date", time.Now().UTC().Add(24*time.Hour)).Error)

	n, err := ExpireOverdueMemberships(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var reloaded model.MembershipModel
	require.NoError(t, db.Take(&reloaded, "id = ?", overdue.ID).Error)
	assert.Equal(t, model.MembershipStatusExpired, reloaded.Status)

	reloaded = model.MembershipModel{}
	require.NoError(t, db.Take(&reloaded, "id = ?", current.ID).Error)
	assert.Equal(t, model.MembershipStatusActive, reloaded.Status)
}
