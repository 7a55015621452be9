package middleware

import (
	"errors"
	"net/http"
	"strings"

	"telecare/internal/models"
	"telecare/internal/token"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CookieName is the session cookie carrying the signed credential.
const CookieName = "auth-token"

// contextUserKey is where handlers find the resolved user.
const contextUserKey = "currentUser"

var errNotAuthenticated = errors.New("not authenticated")

// extractToken pulls the raw credential from the request: cookie first,
// then an Authorization: Bearer header for non-browser clients.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return ""
}

// ResolveUser verifies the request's credential and re-fetches the user
// record so profile changes since issuance are reflected. Every failure
// mode (missing, tampered, expired, unknown user, store error) collapses
// into the same error.
func ResolveUser(c *gin.Context, secret string, db *gorm.DB) (*models.User, error) {
	raw := extractToken(c)
	if raw == "" {
		return nil, errNotAuthenticated
	}

	claims, err := token.Parse(secret, raw)
	if err != nil {
		return nil, errNotAuthenticated
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil, errNotAuthenticated
	}
	return &user, nil
}

// RequireAuth gates API routes: verifies the credential and puts the
// current user into the context, or answers 401 with the generic body.
func RequireAuth(secret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := ResolveUser(c, secret, db)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		util.Error(c, http.StatusForbidden, "forbidden")
		c.Abort()
	}
}

// CurrentUser returns the user resolved by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
