package handler

import (
	"net/http"
	"strings"

	"telecare/internal/middleware"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type updateProfileReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfile changes the current user's display name. The token keeps
// its old claims until it expires; the middleware re-fetches the record,
// so API responses pick up the change immediately.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Unauthorized(c)
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			util.ValidationError(c, "validation failed", map[string]string{
				"name": "name is required",
			})
			return
		}

		if err := db.Model(user).Update("name", req.Name).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to update profile")
			return
		}
		user.Name = req.Name

		util.Success(c, http.StatusOK, util.Response{
			"user": userBody(user),
		})
	}
}

// ChangePassword verifies the old password before setting a new one.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Unauthorized(c)
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, "current password is incorrect")
			return
		}

		if err := util.ValidatePassword(req.NewPassword); err != nil {
			util.ValidationError(c, "validation failed", map[string]string{
				"new_password": err.Error(),
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to update password")
			return
		}

		util.Success(c, http.StatusOK, util.Response{
			"message": "password updated",
		})
	}
}
