// Package authz holds the pure role-authority decisions. No I/O, no side
// effects: every predicate is a function of the materialized session user and
// the bypass list injected at startup.
package authz

import (
	"strings"

	"github.com/idealab-pce/idealab-api/internal/models"
)

// Authority answers permission questions for a session user. The super-admin
// bypass addresses live here and nowhere else.
type Authority struct {
	bypassEmails map[string]struct{}
}

// New builds an Authority with the configured bypass addresses.
func New(bypassEmails []string) *Authority {
	set := make(map[string]struct{}, len(bypassEmails))
	for _, email := range bypassEmails {
		trimmed := strings.ToLower(strings.TrimSpace(email))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return &Authority{bypassEmails: set}
}

// IsBypassEmail reports whether the address is on the configured bypass list.
func (a *Authority) IsBypassEmail(email string) bool {
	_, ok := a.bypassEmails[strings.ToLower(email)]
	return ok
}

// IsSuperAdmin is true iff the user's email is a bypass address or the stored
// role is SUPER_ADMIN.
func (a *Authority) IsSuperAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	if a.IsBypassEmail(user.Email) {
		return true
	}
	return user.Role == models.RoleSuperAdmin
}

// IsAdmin is true iff the stored role is ADMIN or the user is a super-admin.
func (a *Authority) IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAdmin || a.IsSuperAdmin(user)
}

// IsTeacher reports a plain teacher role. Admin does not imply teacher; reviewer
// visibility is checked per assignment column, not by role subsumption.
func (a *Authority) IsTeacher(user *models.User) bool {
	return user != nil && user.Role == models.RoleTeacher
}

// IsStudent reports a plain student role.
func (a *Authority) IsStudent(user *models.User) bool {
	return user != nil && user.Role == models.RoleStudent
}

// CanManageRole reports whether the actor may change the target's role through
// the ordinary promote/demote endpoint. Super-admin targets are off limits
// there; only the dedicated super-admin operation may touch them.
func (a *Authority) CanManageRole(actor *models.User, target *models.User) bool {
	if !a.IsAdmin(actor) {
		return false
	}
	if target.Role == models.RoleSuperAdmin {
		return a.IsSuperAdmin(actor)
	}
	return true
}
