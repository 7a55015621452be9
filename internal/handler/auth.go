package handler

import (
	"net/http"
	"strings"

	"telecare/internal/license"
	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/token"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// loginFailureMsg is deliberately identical for unknown email and wrong
// password, so the response never reveals which field was wrong.
const loginFailureMsg = "invalid email or password"

// AuthHandler implements login, registration, logout and session lookup.
type AuthHandler struct {
	DB           *gorm.DB
	Secret       string
	Licenses     *license.Registry
	SecureCookie bool
}

func NewAuthHandler(db *gorm.DB, secret string, licenses *license.Registry, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		DB:           db,
		Secret:       secret,
		Licenses:     licenses,
		SecureCookie: secureCookie,
	}
}

// setSessionCookie issues the credential and attaches it as the
// HTTP-only session cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, user *models.User) error {
	tok, err := token.Generate(h.Secret, token.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, token.DefaultTTL)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, tok, int(token.DefaultTTL.Seconds()), "/", "", h.SecureCookie, true)
	return nil
}

func userBody(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	}
}

// ---------- register ----------

type registerReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	LicenseNumber string `json:"license_number"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = models.RolePatient
	}

	fields := map[string]string{}
	if err := util.ValidateEmail(req.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		fields["password"] = err.Error()
	}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if !models.KnownRole(req.Role) {
		// admin accounts are provisioned out of band, never self-assigned
		fields["role"] = "role must be patient or doctor"
	}
	if req.Role == models.RoleDoctor {
		if err := h.Licenses.Verify(req.LicenseNumber); err != nil {
			fields["license_number"] = err.Error()
		}
	}
	if len(fields) > 0 {
		util.ValidationError(c, "validation failed", fields)
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query users")
		return
	}
	if count > 0 {
		util.ValidationError(c, "email already in use", map[string]string{
			"email": "email already in use",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if user.Role == models.RoleDoctor {
		user.LicenseNumber = strings.ToUpper(strings.TrimSpace(req.LicenseNumber))
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	if err := h.setSessionCookie(c, &user); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"user": userBody(&user),
	})
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// unknown email and store failure answer exactly like a bad password
		util.Error(c, http.StatusUnauthorized, loginFailureMsg)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, loginFailureMsg)
		return
	}

	if err := h.setSessionCookie(c, &user); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": userBody(&user),
	})
}

// ---------- logout ----------

// Logout deletes the session cookie. Idempotent: logging out twice is fine.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.SecureCookie, true)
	util.Success(c, http.StatusOK, util.Response{})
}

// ---------- session ----------

// Session reports the identity behind the request's cookie, if any.
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := middleware.ResolveUser(c, h.Secret, h.DB)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": userBody(user),
	})
}
