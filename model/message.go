package model

import "time"

// MessageType distinguishes system notices from user conversation
type MessageType string

const (
	MessageSystem   MessageType = "system"
	MessageUser     MessageType = "user"
	MessageWhatsapp MessageType = "whatsapp"
)

// Message is a dashboard message between two users
type Message struct {
	ID         string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SenderID   string      `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID string      `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	Type       MessageType `gorm:"type:varchar(20);default:'user'" json:"type"`
	CreatedAt  time.Time   `json:"created_at"`
}
