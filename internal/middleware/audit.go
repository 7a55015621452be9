package middleware

import (
	"bytes"
	"encoding/base64"
	"io"

	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func encryptField(encryptKey, plain string) string {
	if plain == "" || encryptKey == "" {
		return plain
	}
	b, err := util.EncryptAES(encryptKey, []byte(plain))
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// Audit records every authenticated API request as an access-trail row.
// Health data is PHI, so path and request body are stored encrypted when
// a key is configured. Must run after RequireAuth.
func Audit(db *gorm.DB, encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		user, ok := CurrentUser(c)
		if !ok {
			return
		}
		userID := user.ID

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path

		var meta string
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			meta = string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Path:      encryptField(encryptKey, path),
			Method:    c.Request.Method,
			Action:    encryptField(encryptKey, action),
			Metadata:  encryptField(encryptKey, meta),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
