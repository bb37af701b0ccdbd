package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iteamhub_backend/internals/configs"
	"iteamhub_backend/internals/constants"
	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	membershipService "iteamhub_backend/internals/features/memberships/membership/service"
	notifModel "iteamhub_backend/internals/features/notifications/notification/model"
	notifService "iteamhub_backend/internals/features/notifications/notification/service"
	authDTO "iteamhub_backend/internals/features/users/auth/dto"
	authHelper "iteamhub_backend/internals/features/users/auth/helper"
	authModel "iteamhub_backend/internals/features/users/auth/model"
	authRepo "iteamhub_backend/internals/features/users/auth/repository"
	userModel "iteamhub_backend/internals/features/users/user/model"
	helper "iteamhub_backend/internals/helpers"
)

const (
	accessTTLDefault  = 30 * time.Minute
	refreshTTLDefault = 7 * 24 * time.Hour
)

var validate = validator.New()

func nowUTC() time.Time { return time.Now().UTC() }

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func getJWTSecret() (string, error) {
	if configs.JWTSecret == "" {
		return "", errors.New("JWT secret is not configured")
	}
	return configs.JWTSecret, nil
}

func getRefreshSecret() (string, error) {
	if configs.JWTRefreshSecret == "" {
		return "", errors.New("JWT refresh secret is not configured")
	}
	return configs.JWTRefreshSecret, nil
}

// Refresh tokens are stored HMAC-hashed; the raw value lives only in the
// client cookie.
func computeRefreshHash(token, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return mac.Sum(nil)
}

/* ==========================
   REGISTRATION
========================== */

// registration holds the role-specific parts the three register endpoints
// feed into the shared flow.
type registration struct {
	email       string
	password    string
	firstName   string
	lastName    string
	phoneNumber string
	role        constants.Role
	plan        membershipService.MembershipPlan
	// writes the student_details / staff_details row
	detail func(tx *gorm.DB, userID uuid.UUID) error
}

// POST /api/auth/register/student
func RegisterStudent(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	plan, err := membershipService.PlanForMembershipType(req.MembershipType)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	level := req.Level
	if level == 0 {
		level = 1
	}

	return register(db, c, registration{
		email:       req.Email,
		password:    req.Password,
		firstName:   req.FirstName,
		lastName:    req.LastName,
		phoneNumber: req.PhoneNumber,
		role:        constants.RoleStudent,
		plan:        plan,
		detail: func(tx *gorm.DB, userID uuid.UUID) error {
			return tx.Create(&userModel.StudentDetailModel{
				ID:            userID,
				StudentID:     req.StudentID,
				Department:    req.Department,
				DegreeProgram: req.DegreeProgram,
				Level:         level,
			}).Error
		},
	})
}

// POST /api/auth/register/staff
func RegisterStaff(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	plan, err := membershipService.PlanForMembershipType(req.MembershipType)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return register(db, c, registration{
		email:       req.Email,
		password:    req.Password,
		firstName:   req.FirstName,
		lastName:    req.LastName,
		phoneNumber: req.PhoneNumber,
		role:        constants.RoleStaff,
		plan:        plan,
		detail: func(tx *gorm.DB, userID uuid.UUID) error {
			return tx.Create(&userModel.StaffDetailModel{
				ID:         userID,
				StaffID:    req.StaffID,
				Department: req.Department,
				Position:   req.Position,
			}).Error
		},
	})
}

// POST /api/auth/register/admin
// Requires the admin registration code; the membership is gold, free and
// activated immediately (E-ID issued in the same transaction).
func RegisterAdmin(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}
	if req.AdminCode != configs.AdminRegistrationCode {
		return helper.JsonError(c, fiber.StatusForbidden, "Invalid admin registration code")
	}

	return register(db, c, registration{
		email:       req.Email,
		password:    req.Password,
		firstName:   req.FirstName,
		lastName:    req.LastName,
		phoneNumber: req.PhoneNumber,
		role:        constants.RoleAdmin,
		plan:        membershipService.MembershipPlan{Tier: membershipModel.TierGold, Amount: 0, Years: 3},
		detail: func(tx *gorm.DB, userID uuid.UUID) error {
			return tx.Create(&userModel.StaffDetailModel{
				ID:         userID,
				StaffID:    req.StaffID,
				Department: req.Department,
				Position:   req.Position,
			}).Error
		},
	})
}

func register(db *gorm.DB, c *fiber.Ctx, r registration) error {
	if err := authHelper.ValidatePassword(r.password); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	hashed, err := authHelper.HashPassword(r.password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	var user userModel.UserModel
	err = db.Transaction(func(tx *gorm.DB) error {
		user = userModel.UserModel{
			Email:    strings.ToLower(strings.TrimSpace(r.email)),
			Password: hashed,
			IsActive: true,
		}
		if err := authRepo.CreateUser(tx, &user); err != nil {
			return err
		}

		if err := tx.Create(&userModel.ProfileModel{
			ID:          user.ID,
			FirstName:   r.firstName,
			LastName:    r.lastName,
			Role:        r.role.String(),
			PhoneNumber: strptr(r.phoneNumber),
		}).Error; err != nil {
			return err
		}

		if err := r.detail(tx, user.ID); err != nil {
			return err
		}

		m, err := membershipService.CreateForRegistration(tx, user.ID, r.plan)
		if err != nil {
			return err
		}
		if r.role.BypassesPayment() {
			if _, err := membershipService.ActivateMembership(tx, m.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case helper.IsUniqueViolation(err, "users_email_key", "uni_users_email"):
			return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
		case helper.IsUniqueViolation(err):
			return helper.JsonError(c, fiber.StatusConflict, "Student or staff ID already registered")
		default:
			log.Printf("[AUTH] registration failed: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Registration failed")
		}
	}

	notifService.Notify(db, &user.ID, notifModel.NotificationTypeGeneral,
		"Welcome to the society",
		"Your account has been created.",
		nil)
	return issueTokens(c, db, user)
}

/* ==========================
   LOGIN
========================== */

// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	user, err := authRepo.FindUserByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact an admin.")
	}

	return issueTokens(c, db, *user)
}

// POST /api/auth/login-google
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.HandleValidationError(c, err)
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to decode ID token")
	}

	user, err := authRepo.FindUserByGoogleID(db, claimSet.Sub)
	if err != nil {
		// Google sign-in only attaches to an existing account; sign-up goes
		// through the role-specific register endpoints so the profile and
		// membership rows exist.
		user, err = authRepo.FindUserByEmail(db, strings.ToLower(claimSet.Email))
		if err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "No account for this Google identity, register first")
		}
		if err := db.Model(user).Update("google_id", claimSet.Sub).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to link Google account")
		}
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact an admin.")
	}

	return issueTokens(c, db, *user)
}

/* ==========================
   TOKENS & COOKIES
========================== */

func buildAccessClaims(user userModel.UserModel, profile userModel.ProfileModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        user.ID.String(),
		"email":     user.Email,
		"role":      profile.Role,
		"user_name": profile.FirstName + " " + profile.LastName,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel) error {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var profile userModel.ProfileModel
	if err := db.First(&profile, "id = ?", user.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}

	now := nowUTC()
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, profile, now)).
		SignedString([]byte(jwtSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).
		SignedString([]byte(refreshSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign refresh token")
	}

	if err := authRepo.CreateRefreshToken(db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		Token:     computeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store refresh token")
	}

	setAuthCookies(c, accessToken, refreshToken, now)

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": profile.FirstName,
			"last_name":  profile.LastName,
			"role":       profile.Role,
		},
		"access_token": accessToken,
	})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
}

/* ==========================
   LOGOUT
========================== */

// POST /api/auth/logout
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	accessToken := helper.GetRawAccessToken(c)
	ttl := resolveBlacklistTTL(accessToken)

	if accessToken != "" {
		if err := authRepo.BlacklistToken(db, accessToken, ttl); err != nil {
			log.Printf("[WARN] failed to blacklist token: %v", err)
		}
	}

	if rt := helper.GetRefreshTokenFromCookie(c); rt != "" {
		if secret, err := getRefreshSecret(); err == nil {
			_ = authRepo.DeleteRefreshTokenByHash(db, computeRefreshHash(rt, secret))
		}
	}

	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}

	return helper.JsonOK(c, "Logout successful", nil)
}

// resolveBlacklistTTL keeps the blacklist row alive until the token's own
// exp, with a small margin.
func resolveBlacklistTTL(accessToken string) time.Duration {
	ttl := 2 * time.Minute
	if v := os.Getenv("BLACKLIST_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	secret, err := getJWTSecret()
	if err != nil || accessToken == "" {
		return ttl
	}
	if tok, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err == nil {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok && tok.Valid {
			if exp, ok := claims["exp"].(float64); ok {
				if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
					return until + time.Minute
				}
				return time.Minute
			}
		}
	}
	return ttl
}
