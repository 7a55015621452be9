package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data part of a success body.
type Response map[string]interface{}

// Success writes {"success": true, ...data}.
func Success(c *gin.Context, status int, data Response) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the uniform {"success": false, "message": msg} failure body.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": msg,
	})
}

// ValidationError writes a 400 with per-field detail.
func ValidationError(c *gin.Context, msg string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": msg,
		"errors":  fields,
	})
}

// Unauthorized writes the generic 401 body. Callers never get a hint
// whether the token was missing, tampered or expired.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "not authenticated")
}
