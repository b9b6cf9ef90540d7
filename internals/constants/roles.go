package constants

import "strings"

// Platform roles.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Program participant roles.
const (
	ParticipantMember    = "MEMBER"
	ParticipantOrganizer = "ORGANIZER"
)

var (
	AllRoles   = []string{RoleUser, RoleAdmin, RoleSuperAdmin}
	AdminRoles = []string{RoleAdmin, RoleSuperAdmin}
)

// NormalizeRole maps any stored spelling onto one of AllRoles.
func NormalizeRole(s string) string {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.ReplaceAll(r, "-", "_")
	for _, known := range AllRoles {
		if r == known {
			return r
		}
	}
	return RoleUser
}

func IsAdminRole(role string) bool {
	r := NormalizeRole(role)
	for _, a := range AdminRoles {
		if r == a {
			return true
		}
	}
	return false
}
