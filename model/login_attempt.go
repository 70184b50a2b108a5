package model

import "time"

// LoginAttempt is the audit trail row written for every login attempt,
// successful or not. Writes are best-effort: a failed audit insert never
// fails the login flow itself.
type LoginAttempt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index" json:"user_id"`
	Email      string    `gorm:"not null" json:"email"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	Successful bool      `gorm:"not null" json:"successful"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for LoginAttempt
func (LoginAttempt) TableName() string {
	return "login_attempts"
}
