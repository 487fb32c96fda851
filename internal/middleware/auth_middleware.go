package middleware

import (
	"net/http"
	"strings"

	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and places the resolved identity
// in the request context for the identity port to pick up.
func AuthRequired(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, secretKey)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		user := &models.User{
			Email: claims.Email,
			Name:  claims.Name,
			Phone: claims.Phone,
			Role:  models.UserRole(claims.Role),
		}

		c.Set("user", user)
		c.Request = c.Request.WithContext(services.WithUser(c.Request.Context(), user))

		c.Next()
	}
}

// CaptainRequired ensures the authenticated user is a captain.
func CaptainRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleCaptain, "Captain access required")
}

// PassengerRequired ensures the authenticated user is a passenger.
func PassengerRequired() gin.HandlerFunc {
	return requireRole(models.UserRolePassenger, "Passenger access required")
}

func requireRole(role models.UserRole, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			utils.UnauthorizedResponse(c, "User not found")
			c.Abort()
			return
		}

		user, ok := value.(*models.User)
		if !ok || user.Role != role {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
			c.Abort()
			return
		}

		c.Next()
	}
}
