package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/idealab-pce/idealab-api/internal/middleware"
	"github.com/idealab-pce/idealab-api/internal/models"
)

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}
