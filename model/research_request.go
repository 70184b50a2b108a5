package model

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the progress state of a research request
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// ResearchRequest is a commissioned research job tied to a service
type ResearchRequest struct {
	ID        string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	ServiceID string         `gorm:"type:uuid;not null;index" json:"service_id"`
	Details   string         `gorm:"type:text" json:"details"`
	Deadline  *time.Time     `json:"deadline,omitempty"`
	Status    RequestStatus  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	FileURL   string         `json:"file_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// TableName specifies the table name for ResearchRequest
func (ResearchRequest) TableName() string {
	return "research_requests"
}
