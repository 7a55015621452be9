package handler

import (
	"net/http"
	"strings"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the current user (requires RequireAuth).
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": userBody(user),
	})
}

// ListDoctors returns the doctors available for booking.
func ListDoctors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doctors []models.User
		if err := db.Where("role = ?", models.RoleDoctor).
			Order("name ASC").
			Find(&doctors).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to query doctors")
			return
		}

		items := make([]gin.H, 0, len(doctors))
		for i := range doctors {
			d := &doctors[i]
			items = append(items, gin.H{
				"id":   d.ID,
				"name": d.Name,
			})
		}

		util.Success(c, http.StatusOK, util.Response{
			"items": items,
		})
	}
}

// ListUsers is the admin user listing, paginated.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pagination(c)

		var users []models.User
		if err := db.Order("id ASC").
			Offset((page - 1) * size).
			Limit(size).
			Find(&users).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to query users")
			return
		}

		var total int64
		_ = db.Model(&models.User{}).Count(&total).Error

		items := make([]gin.H, 0, len(users))
		for i := range users {
			items = append(items, userBody(&users[i]))
		}

		util.Success(c, http.StatusOK, util.Response{
			"items": items,
			"page":  page,
			"total": total,
		})
	}
}

// DeleteUserByEmail removes a user and their health entries. Admin only;
// an admin cannot delete their own account.
func DeleteUserByEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := middleware.CurrentUser(c)
		if !ok {
			util.Unauthorized(c)
			return
		}

		email := strings.ToLower(strings.TrimSpace(c.Param("email")))
		if email == "" {
			util.Error(c, http.StatusBadRequest, "email is required")
			return
		}
		if email == admin.Email {
			util.Error(c, http.StatusBadRequest, "cannot delete your own account")
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusNotFound, "user not found")
			} else {
				util.Error(c, http.StatusInternalServerError, "failed to query user")
			}
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.HealthEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ? OR doctor_id = ?", user.ID, user.ID).
				Delete(&models.Appointment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to delete user")
			return
		}

		util.Success(c, http.StatusOK, util.Response{})
	}
}
