package model

import "time"

// Session pairs a refresh token with a user and an expiry. A refresh token
// is only honored while its session row exists, which is what makes
// server-side revocation (logout) work even though the token itself stays
// cryptographically valid until it expires.
type Session struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	RefreshToken string    `gorm:"uniqueIndex;not null;type:text" json:"-"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}
