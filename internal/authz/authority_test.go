package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idealab-pce/idealab-api/internal/models"
)

var bypass = []string{"director@poornima.org", "idealab.head@poornima.org"}

func sessionUser(email string, role models.UserRole) *models.User {
	return &models.User{ID: "u1", Email: email, Role: role}
}

func TestIsSuperAdmin(t *testing.T) {
	authority := New(bypass)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"nil user", nil, false},
		{"student", sessionUser("alice@poornima.org", models.RoleStudent), false},
		{"admin", sessionUser("admin@poornima.org", models.RoleAdmin), false},
		{"stored super admin", sessionUser("boss@poornima.org", models.RoleSuperAdmin), true},
		{"bypass address with student role", sessionUser("director@poornima.org", models.RoleStudent), true},
		{"bypass address case insensitive", sessionUser("Director@Poornima.org", models.RoleStudent), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authority.IsSuperAdmin(tt.user))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	authority := New(bypass)

	assert.False(t, authority.IsAdmin(nil))
	assert.False(t, authority.IsAdmin(sessionUser("alice@poornima.org", models.RoleStudent)))
	assert.False(t, authority.IsAdmin(sessionUser("t@poornima.org", models.RoleTeacher)))
	assert.True(t, authority.IsAdmin(sessionUser("admin@poornima.org", models.RoleAdmin)))
	assert.True(t, authority.IsAdmin(sessionUser("boss@poornima.org", models.RoleSuperAdmin)))
	assert.True(t, authority.IsAdmin(sessionUser("director@poornima.org", models.RoleStudent)))
}

func TestAdminDoesNotImplyTeacher(t *testing.T) {
	authority := New(bypass)

	assert.False(t, authority.IsTeacher(sessionUser("admin@poornima.org", models.RoleAdmin)))
	assert.True(t, authority.IsTeacher(sessionUser("t@poornima.org", models.RoleTeacher)))
}

func TestCanManageRole(t *testing.T) {
	authority := New(bypass)

	admin := sessionUser("admin@poornima.org", models.RoleAdmin)
	super := sessionUser("boss@poornima.org", models.RoleSuperAdmin)
	student := sessionUser("alice@poornima.org", models.RoleStudent)

	teacherTarget := &models.User{ID: "t1", Role: models.RoleTeacher}
	superTarget := &models.User{ID: "s1", Role: models.RoleSuperAdmin}

	assert.True(t, authority.CanManageRole(admin, teacherTarget))
	assert.False(t, authority.CanManageRole(student, teacherTarget))
	assert.False(t, authority.CanManageRole(admin, superTarget))
	assert.True(t, authority.CanManageRole(super, superTarget))
}

func TestRoleLadder(t *testing.T) {
	next, ok := models.RoleStudent.Promote()
	assert.True(t, ok)
	assert.Equal(t, models.RoleTeacher, next)

	next, ok = models.RoleTeacher.Promote()
	assert.True(t, ok)
	assert.Equal(t, models.RoleAdmin, next)

	_, ok = models.RoleAdmin.Promote()
	assert.False(t, ok)

	_, ok = models.RoleSuperAdmin.Promote()
	assert.False(t, ok)

	prev, ok := models.RoleAdmin.Demote()
	assert.True(t, ok)
	assert.Equal(t, models.RoleTeacher, prev)

	prev, ok = models.RoleTeacher.Demote()
	assert.True(t, ok)
	assert.Equal(t, models.RoleStudent, prev)

	_, ok = models.RoleStudent.Demote()
	assert.False(t, ok)

	_, ok = models.RoleSuperAdmin.Demote()
	assert.False(t, ok)
}
