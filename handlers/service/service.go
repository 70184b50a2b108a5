package service

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// ServiceHandler handles catalog service requests
type ServiceHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateServiceRequest represents the request body for creating a service
type CreateServiceRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsFree      bool    `json:"is_free"`
}

// UpdateServiceRequest represents the request body for updating a service
type UpdateServiceRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	IsFree      *bool    `json:"is_free"`
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Service{})
	if search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count services")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var services []model.Service
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&services).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch services")
	}

	return response.Paginated(c, services, pagination)
}

// GetService handles GET /api/services/:id
func (h *ServiceHandler) GetService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service model.Service
	if err := h.db.Where("id = ?", id).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Service not found")
		}
		return response.InternalServerError(c, "Failed to fetch service")
	}

	return response.Success(c, service)
}

// CreateService handles POST /api/services (admin)
func (h *ServiceHandler) CreateService(c *fiber.Ctx) error {
	var req CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	service := model.Service{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsFree:      req.IsFree,
	}
	if err := h.db.Create(&service).Error; err != nil {
		return response.InternalServerError(c, "Failed to create service")
	}

	return response.Created(c, service)
}

// UpdateService handles PUT /api/services/:id (admin)
func (h *ServiceHandler) UpdateService(c *fiber.Ctx) error {
	id := c.Params("id")

	var service model.Service
	if err := h.db.Where("id = ?", id).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Service not found")
		}
		return response.InternalServerError(c, "Failed to fetch service")
	}

	var req UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		service.Title = req.Title
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.IsFree != nil {
		service.IsFree = *req.IsFree
	}

	if err := h.db.Save(&service).Error; err != nil {
		return response.InternalServerError(c, "Failed to update service")
	}

	return response.Success(c, service)
}

// DeleteService handles DELETE /api/services/:id (admin)
func (h *ServiceHandler) DeleteService(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Where("id = ?", id).Delete(&model.Service{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete service")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Service not found")
	}

	return response.Success(c, fiber.Map{"message": "Service deleted"})
}
