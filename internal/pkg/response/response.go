package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// RateLimited writes a 429 with the Retry-After header and the reset time in
// the error details so clients can back off deterministically.
func RateLimited(c *gin.Context, code string, message string, retryAfterSeconds int, details gin.H) {
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	payload := gin.H{"retry_after": retryAfterSeconds}
	for k, v := range details {
		payload[k] = v
	}
	ErrorWithDetails(c, 429, code, message, payload)
}
