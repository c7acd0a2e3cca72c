package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/authz"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
	"github.com/idealab-pce/idealab-api/pkg/response"
)

// RequireAdmin blocks requests whose user lacks admin authority. Bypass
// addresses pass regardless of stored role.
func RequireAdmin(authority *authz.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !authority.IsAdmin(user) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin blocks requests whose user lacks super-admin authority.
func RequireSuperAdmin(authority *authz.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !authority.IsSuperAdmin(user) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireReviewer admits teachers and admins, the two roles with an
// assignment column.
func RequireReviewer(authority *authz.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !authority.IsTeacher(user) && !authority.IsAdmin(user) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
