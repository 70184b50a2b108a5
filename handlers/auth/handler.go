package auth

import (
	"time"

	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db        *gorm.DB
	jwt       *auth.JWTManager
	guard     *auth.Guard
	hasher    *auth.PasswordHasher
	cookies   *auth.CookieTransport
	sessions  auth.SessionStore
	validator *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	db *gorm.DB,
	jwt *auth.JWTManager,
	guard *auth.Guard,
	hasher *auth.PasswordHasher,
	cookies *auth.CookieTransport,
	sessions auth.SessionStore,
) *AuthHandler {
	return &AuthHandler{
		db:        db,
		jwt:       jwt,
		guard:     guard,
		hasher:    hasher,
		cookies:   cookies,
		sessions:  sessions,
		validator: validation.NewValidator(),
	}
}

// AuthResponse is returned by signup, login and refresh. Tokens travel in
// cookies, not the body; the body only tells the client who it is and how
// long the access token lives.
type AuthResponse struct {
	User      model.PublicUser `json:"user"`
	ExpiresIn int              `json:"expires_in"` // in seconds
}

func (h *AuthHandler) authResponse(user *model.User) AuthResponse {
	return AuthResponse{
		User:      user.Public(),
		ExpiresIn: int(h.jwt.AccessTTL() / time.Second),
	}
}
