package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"iteamhub_backend/internals/constants"
	"iteamhub_backend/internals/features/memberships/membership/model"
	userModel "iteamhub_backend/internals/features/users/user/model"
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
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func createMember(t *testing.T, db *gorm.DB, role constants.Role) uuid.UUID {
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
	return user.ID
}

func createMembership(t *testing.T, db *gorm.DB, userID uuid.UUID, tier, status string) *model.MembershipModel {
	t.Helper()
	m := model.MembershipModel{
		UserID: userID,
		Tier:   tier,
		Status: status,
		Amount: 500,
	}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func datePtr(ts time.Time) *time.Time { return &ts }
