package handlers

import (
	"strings"

	"carpool/internal/config"
	"carpool/internal/models"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler mints development tokens. Real deployments delegate sign-in
// to the external identity collaborator and only validate its tokens.
type AuthHandler struct {
	security *config.SecurityConfig
}

func NewAuthHandler(security *config.SecurityConfig) *AuthHandler {
	return &AuthHandler{security: security}
}

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var request tokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	errors := make(map[string]string)
	if !strings.Contains(request.Email, "@") {
		errors["email"] = "a valid email is required"
	}
	role := models.UserRole(request.Role)
	if role != models.UserRoleCaptain && role != models.UserRolePassenger {
		errors["role"] = "role must be captain or passenger"
	}
	if len(errors) > 0 {
		utils.ValidationErrorResponse(c, errors)
		return
	}

	user := &models.User{
		Email: request.Email,
		Name:  request.Name,
		Phone: request.Phone,
		Role:  role,
	}

	token, err := utils.GenerateToken(user, h.security.JWTSecret, h.security.JWTAccessTokenTTL)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Token issued successfully", gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.security.JWTAccessTokenTTL.Seconds()),
	})
}
