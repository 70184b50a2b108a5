package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// Refresh rotates the token pair. The presented refresh token must verify
// AND have a live session row; rotation revokes the old session before the
// new pair is attached, so a refresh token can never be replayed and each
// user keeps a single live session per login.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := h.cookies.RefreshToken(c)

	claims, err := h.jwt.VerifyRefreshToken(c.Context(), refreshToken)
	if err != nil {
		return refreshRejected(c, err)
	}

	if _, err := h.sessions.FindSessionByRefreshToken(c.Context(), refreshToken); err != nil {
		// Signed but sessionless: revoked by logout or purged after expiry.
		return response.Unauthorized(c, "Session no longer valid")
	}

	var user model.User
	if err := h.db.Where("id = ?", claims.Subject).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Error(c, fiber.StatusNotFound, "User not found", response.CodeUserNotFound)
		}
		return response.InternalServerError(c, "Failed to load user")
	}
	if user.Status == model.StatusSuspended {
		return response.Error(c, fiber.StatusForbidden,
			"This account has been suspended", response.CodeAccountSuspended)
	}

	// Rotate: kill the old session before handing out the new pair.
	h.jwt.Revoke(c.Context(), refreshToken)

	accessToken, err := h.jwt.IssueAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	newRefreshToken, err := h.jwt.IssueRefreshToken(c.Context(), user.ID, user.Email, user.Role)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to issue token", response.CodeJWTError)
	}

	h.cookies.Attach(c, accessToken, newRefreshToken)
	return response.Success(c, h.authResponse(&user))
}

// Logout revokes both tokens and clears the cookies. Always succeeds:
// logging out with stale or missing tokens is not an error worth surfacing
// to the user.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if access := h.cookies.AccessToken(c); access != "" {
		h.jwt.Revoke(c.Context(), access)
	}
	if refresh := h.cookies.RefreshToken(c); refresh != "" {
		h.jwt.Revoke(c.Context(), refresh)
	}

	h.cookies.Clear(c)
	return response.Success(c, fiber.Map{"message": "Logged out successfully"})
}

func refreshRejected(c *fiber.Ctx, err error) error {
	switch err {
	case auth.ErrMissingToken:
		return response.Unauthorized(c, "No refresh token provided")
	case auth.ErrExpiredToken:
		return response.Unauthorized(c, "Refresh token has expired")
	case auth.ErrTokenBlacklisted:
		return response.Unauthorized(c, "Refresh token has been revoked")
	case auth.ErrMissingSecret:
		log.Println("refresh: jwt signing secret is not configured")
		return response.Error(c, fiber.StatusInternalServerError, "Token service unavailable", response.CodeJWTError)
	default:
		return response.Unauthorized(c, "Invalid refresh token")
	}
}
