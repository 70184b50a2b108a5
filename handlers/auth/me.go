package auth

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// Me returns the authenticated user's profile. The gate already verified
// the token; this endpoint re-reads the user so the response reflects the
// current row, not the claims snapshot baked into the token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var user model.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Error(c, fiber.StatusNotFound, "User not found", response.CodeUserNotFound)
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, user.Public())
}
