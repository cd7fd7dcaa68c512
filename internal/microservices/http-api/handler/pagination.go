package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// pageQuery binds and clamps the pagination query parameters.
func pageQuery(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
		return q, false
	}
	q.Normalize()
	return q, true
}
