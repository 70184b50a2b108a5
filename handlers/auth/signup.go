package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// SignupRequest represents a user registration request
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup registers a new account and signs it in immediately. New accounts
// always start as an active regular user; roles are only ever raised by a
// superadmin afterwards.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validator.ValidateStruct(req); err != nil {
		fieldErrors := validation.FormatValidationErrors(err)
		for _, msg := range fieldErrors {
			return response.BadRequest(c, msg)
		}
		return response.BadRequest(c, "Invalid request")
	}

	var existing model.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "An account with this email already exists", response.CodeUserExists)
	}
	if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to check existing account")
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return response.BadRequest(c, "Password does not meet requirements")
	}

	user := model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create account")
	}

	accessToken, err := h.jwt.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	refreshToken, err := h.jwt.IssueRefreshToken(c.Context(), user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	h.cookies.Attach(c, accessToken, refreshToken)
	return response.Created(c, h.authResponse(&user))
}
