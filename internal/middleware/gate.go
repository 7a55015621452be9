package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Page prefixes that require a logged-in user.
var protectedPrefixes = []string{
	"/dashboard",
	"/appointments",
	"/records",
	"/consultation",
	"/messages",
}

// Page prefixes only shown to logged-out visitors.
var authOnlyPrefixes = []string{
	"/login",
	"/register",
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// PageGate classifies each page request as protected, auth-only or
// public and redirects accordingly. Stateless: authentication is
// re-verified on every request, there is no session table.
func PageGate(secret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		protected := hasPrefix(path, protectedPrefixes)
		authOnly := hasPrefix(path, authOnlyPrefixes)
		if !protected && !authOnly {
			c.Next()
			return
		}

		_, err := ResolveUser(c, secret, db)
		authed := err == nil

		switch {
		case protected && !authed:
			// preserve the destination so login can bounce back
			target := "/login?callbackUrl=" + url.QueryEscape(path)
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
		case authOnly && authed:
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
		default:
			c.Next()
		}
	}
}
