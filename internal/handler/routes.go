package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/middleware"
	"github.com/idealab-pce/idealab-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Project     *ProjectHandler
	User        *UserHandler
	Overlord    *OverlordHandler
	Achievement *AchievementHandler
	Showcase    *ShowcaseHandler
	AdminLog    *AdminLogHandler
	Files       *FilesHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService, authority *authz.Authority, cookieName string) {
	session := middleware.Session(authSvc, cookieName)
	admin := middleware.RequireAdmin(authority)
	superAdmin := middleware.RequireSuperAdmin(authority)
	reviewer := middleware.RequireReviewer(authority)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.GET("/login", h.Auth.Login)
		auth.GET("/callback", h.Auth.Callback)
		auth.GET("/me", session, h.Auth.Me)
		auth.POST("/logout", session, h.Auth.Logout)
	}

	projects := api.Group("/projects", session)
	{
		projects.POST("", h.Project.Create)
		projects.GET("", admin, h.Project.List)
		projects.GET("/mine", h.Project.ListMine)
		projects.GET("/mine/:id", h.Project.GetMine)
		projects.GET("/assigned", reviewer, h.Project.Assigned)
		projects.POST("/:id/complete", h.Project.Complete)
		projects.GET("/:id/summary", h.Project.DownloadSummary)
		projects.PATCH("/:id", admin, h.Project.AdminUpdate)
		projects.DELETE("/:id", h.Project.Delete)
	}

	users := api.Group("/users", session)
	{
		users.PATCH("/me/profile", h.User.UpdateProfile)
		users.GET("", admin, h.User.List)
		users.GET("/:id", admin, h.User.Get)
		users.POST("/:id/promote", admin, h.User.Promote)
		users.POST("/:id/demote", admin, h.User.Demote)
		users.POST("/:id/super-admin", superAdmin, h.User.SetSuperAdmin)
		users.DELETE("/:id", admin, h.User.Delete)
	}

	overlords := api.Group("/overlords", session, superAdmin)
	{
		overlords.GET("", h.Overlord.List)
		overlords.POST("", h.Overlord.Create)
		overlords.DELETE("/:id", h.Overlord.Delete)
	}

	achievements := api.Group("/achievements")
	{
		achievements.GET("", h.Achievement.List)
		achievements.POST("", session, h.Achievement.Create)
		achievements.DELETE("/:id", session, admin, h.Achievement.Delete)
	}

	showcase := api.Group("/showcase")
	{
		showcase.GET("", h.Showcase.List)
		showcase.POST("", session, admin, h.Showcase.Create)
		showcase.DELETE("/:id", session, admin, h.Showcase.Delete)
	}

	adminLogs := api.Group("/admin-logs", session, admin)
	{
		adminLogs.GET("", h.AdminLog.List)
		adminLogs.GET("/export", h.AdminLog.Export)
	}

	if h.Files != nil {
		api.GET("/files/:token", h.Files.Download)
	}
}
