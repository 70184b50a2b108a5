package auth

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user with email and password. All credential
// failures return the same 401 so a caller cannot probe which emails are
// registered; only lockout and suspension are distinguishable, and those
// require knowing a valid password attempt pattern anyway.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()
	userAgent := c.Get("User-Agent")

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("login: user lookup failed: %v", err)
		}
		return invalidCredentials(c)
	}

	admission := h.guard.CheckAdmission(c.Context(), &user)
	switch {
	case admission.Suspended:
		return response.Error(c, fiber.StatusForbidden,
			"This account has been suspended", response.CodeAccountSuspended)
	case admission.Locked:
		return response.ErrorWithDetails(c, fiber.StatusForbidden,
			"Too many failed login attempts. Try again later.",
			response.CodeTooManyAttempts,
			"retry_after_seconds="+strconv.Itoa(admission.RemainingSeconds))
	}

	if err := h.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if err != auth.ErrPasswordMismatch {
			log.Printf("login: stored hash for %s could not be verified: %v", user.ID, err)
		}
		h.guard.RecordFailure(c.Context(), &user, ip, userAgent)
		return invalidCredentials(c)
	}

	h.guard.RecordSuccess(c.Context(), &user, ip, userAgent)

	accessToken, err := h.jwt.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	refreshToken, err := h.jwt.IssueRefreshToken(c.Context(), user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	h.cookies.Attach(c, accessToken, refreshToken)
	return response.Success(c, h.authResponse(&user))
}

func invalidCredentials(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusUnauthorized,
		"Invalid email or password", response.CodeInvalidCredentials)
}
