package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination reads page/page_size query params with sane bounds.
func pagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
