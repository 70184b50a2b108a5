package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role is the ordered user role hierarchy: superadmin > admin > user.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Level returns the rank of the role in the hierarchy. Unknown roles rank
// below every valid role.
func (r Role) Level() int {
	switch r {
	case RoleSuperadmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether r grants at least the access of required.
func (r Role) Satisfies(required Role) bool {
	return r.Level() > 0 && r.Level() >= required.Level()
}

// DashboardPath returns the dashboard area a role is entitled to land on.
func (r Role) DashboardPath() string {
	switch r {
	case RoleSuperadmin:
		return "/dashboard/superadmin"
	case RoleAdmin:
		return "/dashboard/admin"
	default:
		return "/dashboard/user"
	}
}

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r.Level() > 0
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusPending   UserStatus = "pending"
)

// User represents a registered account
type User struct {
	ID                  string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
	Name                string         `gorm:"not null" json:"name"`
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Role                Role           `gorm:"type:varchar(20);default:'user'" json:"role"`
	Status              UserStatus     `gorm:"type:varchar(20);default:'active'" json:"status"`
	ProfileData         datatypes.JSON `gorm:"type:jsonb" json:"profile_data,omitempty"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time     `json:"-"`

	// Relationships
	Sessions      []Session      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LoginAttempts []LoginAttempt `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders        []Order        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PublicUser is the safe view of a user returned by auth endpoints.
type PublicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Public strips credential and lockout fields from a user record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
