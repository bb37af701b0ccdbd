package constants

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Every role decision in the app
// (route guards, E-ID prefixes, registration rules) goes through this package
// instead of comparing raw strings at the call site.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

var ErrUnknownRole = fmt.Errorf("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// EIDPrefix is the three-letter code used in membership E-IDs
// (ITS/<year>/<prefix>/<seq>).
func (r Role) EIDPrefix() string {
	switch r {
	case RoleStudent:
		return "STU"
	case RoleStaff:
		return "STF"
	case RoleAdmin:
		return "ADM"
	}
	return ""
}

// BypassesPayment reports whether registration for this role creates an
// already-active membership instead of going through payment verification.
func (r Role) BypassesPayment() bool { return r == RoleAdmin }

// ==========================
// ✅ Grouped Role Slices
// ==========================

var (
	AllRoles   = []string{string(RoleStudent), string(RoleStaff), string(RoleAdmin)}
	AdminOnly  = []string{string(RoleAdmin)}
	MemberOnly = []string{string(RoleStudent), string(RoleStaff)}
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess  = "❌ Only admins may access %s."
	ErrOnlyMembersCanAccess = "❌ Only students or staff may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMembersCanAccess, feature)
}
