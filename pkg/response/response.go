package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"instaclone/pkg/apperror"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (string, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	userID, ok := userIDStr.(string)
	if !ok {
		return "", apperror.ErrUnauthorized
	}

	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return "", apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
