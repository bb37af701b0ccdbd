package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"iteamhub_backend/internals/configs"
	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	userModel "iteamhub_backend/internals/features/users/user/model"
)

// setupAuthApp wires the auth handlers onto a throwaway Fiber app backed by
// an in-memory database. The schema is created by hand because SQLite cannot
// parse the Postgres defaults in the model tags. The per-route rate limiters
// are not mounted here; they would trip on repeated requests from the same
// test client.
func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
	configs.AdminRegistrationCode = "ITEAM2025ADMIN"

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
		`CREATE TABLE student_details (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL UNIQUE,
			department TEXT NOT NULL,
			degree_program TEXT,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE staff_details (
			id TEXT PRIMARY KEY,
			staff_id TEXT NOT NULL UNIQUE,
			department TEXT NOT NULL,
			position TEXT,
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
		`CREATE TABLE refresh_tokens (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			token BLOB NOT NULL,
			expires_at DATETIME NOT NULL,
			user_agent TEXT,
			ip TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE token_blacklists (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			expired_at DATETIME NOT NULL,
			created_at DATETIME,
			deleted_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	app := fiber.New()
	app.Post("/api/auth/register/student", func(c *fiber.Ctx) error { return RegisterStudent(db, c) })
	app.Post("/api/auth/register/staff", func(c *fiber.Ctx) error { return RegisterStaff(db, c) })
	app.Post("/api/auth/register/admin", func(c *fiber.Ctx) error { return RegisterAdmin(db, c) })
	app.Post("/api/auth/login", func(c *fiber.Ctx) error { return Login(db, c) })
	app.Post("/api/auth/logout", func(c *fiber.Ctx) error { return Logout(db, c) })
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func studentBody(email string) map[string]any {
	return map[string]any{
		"email":           email,
		"password":        "secret123",
		"first_name":      "Amina",
		"last_name":       "Yusuf",
		"student_id":      "ITS-" + email,
		"department":      "Computer Science",
		"degree_program":  "BSc Software Engineering",
		"level":           2,
		"membership_type": "1year",
	}
}

func TestRegisterStudent(t *testing.T) {
	app, db := setupAuthApp(t)

	resp, body := postJSON(t, app, "/api/auth/register/student", studentBody("amina@uni.edu"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "body: %v", body)

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "amina@uni.edu", user["email"])
	assert.Equal(t, "student", user["role"])

	var u userModel.UserModel
	require.NoError(t, db.Take(&u, "email = ?", "amina@uni.edu").Error)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")

	var detail userModel.StudentDetailModel
	require.NoError(t, db.Take(&detail, "id = ?", u.ID).Error)
	assert.Equal(t, 2, detail.Level)

	var m membershipModel.MembershipModel
	require.NoError(t, db.Take(&m, "user_id = ?", u.ID).Error)
	assert.Equal(t, membershipModel.MembershipStatusPendingPayment, m.Status)
	assert.Equal(t, membershipModel.TierBronze, m.Tier)
	assert.Equal(t, 500, m.Amount)
	assert.Nil(t, m.EID, "no E-ID before payment verification")
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp, _ := postJSON(t, app, "/api/auth/register/student", studentBody("dup@uni.edu"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	second := studentBody("dup@uni.edu")
	second["student_id"] = "ITS-other"
	resp, body := postJSON(t, app, "/api/auth/register/student", second)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["message"], "Email already registered")
}

func TestRegisterStudent_WeakPassword(t *testing.T) {
	app, _ := setupAuthApp(t)

	weak := studentBody("weak@uni.edu")
	weak["password"] = "lettersonly"
	resp, _ := postJSON(t, app, "/api/auth/register/student", weak)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterStaff(t *testing.T) {
	app, db := setupAuthApp(t)

	resp, body := postJSON(t, app, "/api/auth/register/staff", map[string]any{
		"email":           "lecturer@uni.edu",
		"password":        "secret123",
		"first_name":      "John",
		"last_name":       "Mensah",
		"staff_id":        "STF-100",
		"department":      "Mathematics",
		"position":        "Lecturer",
		"membership_type": "2year",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "body: %v", body)

	var u userModel.UserModel
	require.NoError(t, db.Take(&u, "email = ?", "lecturer@uni.edu").Error)
	var m membershipModel.MembershipModel
	require.NoError(t, db.Take(&m, "user_id = ?", u.ID).Error)
	assert.Equal(t, membershipModel.TierSilver, m.Tier)
	assert.Equal(t, 1000, m.Amount)
	assert.Equal(t, membershipModel.MembershipStatusPendingPayment, m.Status)
}

func TestRegisterAdmin(t *testing.T) {
	app, db := setupAuthApp(t)

	t.Run("wrong code is rejected", func(t *testing.T) {
		resp, _ := postJSON(t, app, "/api/auth/register/admin", map[string]any{
			"email":      "imposter@uni.edu",
			"password":   "secret123",
			"first_name": "Not",
			"last_name":  "Admin",
			"staff_id":   "STF-999",
			"department": "Registry",
			"admin_code": "WRONG",
		})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("valid code gets an active gold membership", func(t *testing.T) {
		resp, body := postJSON(t, app, "/api/auth/register/admin", map[string]any{
			"email":      "admin@uni.edu",
			"password":   "secret123",
			"first_name": "Grace",
			"last_name":  "Owusu",
			"staff_id":   "STF-001",
			"department": "Administration",
			"position":   "Society Admin",
			"admin_code": "ITEAM2025ADMIN",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "body: %v", body)

		var u userModel.UserModel
		require.NoError(t, db.Take(&u, "email = ?", "admin@uni.edu").Error)
		var m membershipModel.MembershipModel
		require.NoError(t, db.Take(&m, "user_id = ?", u.ID).Error)
		assert.Equal(t, membershipModel.MembershipStatusActive, m.Status)
		assert.Equal(t, membershipModel.TierGold, m.Tier)
		assert.Equal(t, 0, m.Amount)
		require.NotNil(t, m.EID)
		assert.Equal(t, fmt.Sprintf("ITS/%d/ADM/0001", time.Now().UTC().Year()), *m.EID)
	})
}

func TestLogin(t *testing.T) {
	app, db := setupAuthApp(t)
	resp, _ := postJSON(t, app, "/api/auth/register/student", studentBody("login@uni.edu"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	t.Run("valid credentials", func(t *testing.T) {
		resp, body := postJSON(t, app, "/api/auth/login", map[string]any{
			"email":    "Login@Uni.edu", // case-insensitive
			"password": "secret123",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "body: %v", body)
		data := body["data"].(map[string]any)
		assert.NotEmpty(t, data["access_token"])

		cookies := resp.Cookies()
		names := make([]string, 0, len(cookies))
		for _, ck := range cookies {
			names = append(names, ck.Name)
		}
		assert.Contains(t, names, "access_token")
		assert.Contains(t, names, "refresh_token")
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := postJSON(t, app, "/api/auth/login", map[string]any{
			"email":    "login@uni.edu",
			"password": "wrongpass1",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body["message"], "Invalid email or password")
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		resp, body := postJSON(t, app, "/api/auth/login", map[string]any{
			"email":    "nobody@uni.edu",
			"password": "secret123",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body["message"], "Invalid email or password")
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, db.Model(&userModel.UserModel{}).
			Where("email = ?", "login@uni.edu").
			Update("is_active", false).Error)

		resp, _ := postJSON(t, app, "/api/auth/login", map[string]any{
			"email":    "login@uni.edu",
			"password": "secret123",
		})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestLogout_WithoutSession(t *testing.T) {
	app, _ := setupAuthApp(t)

	// logout is idempotent; no cookies, no token, still 200
	resp, body := postJSON(t, app, "/api/auth/logout", map[string]any{})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "Logout successful")
}
