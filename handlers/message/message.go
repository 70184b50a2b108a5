package message

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// MessageHandler handles dashboard messaging
type MessageHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string            `json:"receiver_id" validate:"required,uuid"`
	Content    string            `json:"content" validate:"required,min=1,max=10000"`
	Type       model.MessageType `json:"type" validate:"omitempty,oneof=system user whatsapp"`
}

// ListMessages handles GET /api/messages: every message the caller sent or
// received, newest first.
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.Message{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count messages")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var messages []model.Message
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch messages")
	}

	return response.Paginated(c, messages, pagination)
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var receiver model.User
	if err := h.db.Where("id = ?", req.ReceiverID).First(&receiver).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Recipient not found")
		}
		return response.InternalServerError(c, "Failed to fetch recipient")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = model.MessageUser
	}

	message := model.Message{
		SenderID:   userID,
		ReceiverID: receiver.ID,
		Content:    req.Content,
		Type:       msgType,
	}
	if err := h.db.Create(&message).Error; err != nil {
		return response.InternalServerError(c, "Failed to send message")
	}

	return response.Created(c, message)
}
