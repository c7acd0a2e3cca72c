package models

import "time"

// UserRole represents the closed set of roles recognised by the RBAC system.
type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleTeacher    UserRole = "TEACHER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// ladder is the total order used by promote/demote. SUPER_ADMIN sits above ADMIN
// but is only reachable through the dedicated super-admin endpoint.
var ladder = []UserRole{RoleStudent, RoleTeacher, RoleAdmin, RoleSuperAdmin}

// Valid reports whether the role is one of the enumerated values.
func (r UserRole) Valid() bool {
	for _, role := range ladder {
		if role == r {
			return true
		}
	}
	return false
}

// Rank returns the position of the role on the ladder, -1 for unknown roles.
func (r UserRole) Rank() int {
	for i, role := range ladder {
		if role == r {
			return i
		}
	}
	return -1
}

// Promote returns the next role up. The ordinary ladder stops at ADMIN; promotion
// to SUPER_ADMIN is a separate super-admin-only operation.
func (r UserRole) Promote() (UserRole, bool) {
	switch r {
	case RoleStudent:
		return RoleTeacher, true
	case RoleTeacher:
		return RoleAdmin, true
	default:
		return r, false
	}
}

// Demote returns the next role down, never below STUDENT and never from SUPER_ADMIN.
func (r UserRole) Demote() (UserRole, bool) {
	switch r {
	case RoleAdmin:
		return RoleTeacher, true
	case RoleTeacher:
		return RoleStudent, true
	default:
		return r, false
	}
}

// User represents an application user stored in the users table. Accounts are
// created on first successful sign-in; the role is mutation-only afterwards and
// is never re-derived from the email.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	RegID     string    `db:"reg_id" json:"reg_id"`
	Role      UserRole  `db:"role" json:"role"`
	Branch    *string   `db:"branch" json:"branch,omitempty"`
	Section   *string   `db:"section" json:"section,omitempty"`
	Batch     *string   `db:"batch" json:"batch,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
