package service

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// CreateResearchRequest represents the request body for commissioning a
// research job against a service
type CreateResearchRequest struct {
	ServiceID string     `json:"service_id" validate:"required,uuid"`
	Details   string     `json:"details" validate:"required,min=10,max=10000"`
	Deadline  *time.Time `json:"deadline"`
}

// UpdateResearchStatusRequest represents a status transition (admin)
type UpdateResearchStatusRequest struct {
	Status model.RequestStatus `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// ListResearchRequests handles GET /api/research-requests. Regular users
// see their own requests; admins see everyone's.
func (h *ServiceHandler) ListResearchRequests(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.ResearchRequest{})
	if !role.Satisfies(model.RoleAdmin) {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count research requests")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var requests []model.ResearchRequest
	if err := query.Preload("Service").
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&requests).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch research requests")
	}

	return response.Paginated(c, requests, pagination)
}

// CreateResearch handles POST /api/research-requests
func (h *ServiceHandler) CreateResearch(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateResearchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var service model.Service
	if err := h.db.Where("id = ?", req.ServiceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Service not found")
		}
		return response.InternalServerError(c, "Failed to fetch service")
	}

	request := model.ResearchRequest{
		UserID:    userID,
		ServiceID: service.ID,
		Details:   req.Details,
		Deadline:  req.Deadline,
		Status:    model.RequestPending,
	}
	if err := h.db.Create(&request).Error; err != nil {
		return response.InternalServerError(c, "Failed to create research request")
	}

	return response.Created(c, request)
}

// UpdateResearchStatus handles PATCH /api/research-requests/:id/status (admin)
func (h *ServiceHandler) UpdateResearchStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateResearchStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var request model.ResearchRequest
	if err := h.db.Where("id = ?", id).First(&request).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Research request not found")
		}
		return response.InternalServerError(c, "Failed to fetch research request")
	}

	request.Status = req.Status
	if err := h.db.Save(&request).Error; err != nil {
		return response.InternalServerError(c, "Failed to update research request")
	}

	return response.Success(c, request)
}
