package middleware

import (
	appErrors "github.com/1Zamuken1/GastuApp/internal/errors"

	"github.com/gin-gonic/gin"
)

func abortWithError(c *gin.Context, err *appErrors.AppError) {
	payload := gin.H{
		"error":   err.Code,
		"message": err.Message,
	}
	if len(err.Details) > 0 {
		payload["details"] = err.Details
	}
	c.AbortWithStatusJSON(err.StatusCode, payload)
}
