package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// UserHandler handles superadmin user administration
type UserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// UpdateUserRequest represents a role or status change
type UpdateUserRequest struct {
	Role   model.Role       `json:"role" validate:"omitempty,oneof=user admin superadmin"`
	Status model.UserStatus `json:"status" validate:"omitempty,oneof=active suspended pending"`
}

// ListUsers handles GET /api/users (superadmin)
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")
	role := c.Query("role", "")

	query := h.db.Model(&model.User{})
	if search != "" {
		query = query.Where("email ILIKE ?", "%"+search+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var users []model.User
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}

	return response.Paginated(c, public, pagination)
}

// GetUser handles GET /api/users/:id (superadmin)
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Error(c, fiber.StatusNotFound, "User not found", response.CodeUserNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user.Public())
}

// UpdateUser handles PATCH /api/users/:id (superadmin). Role and status
// changes only; all other profile fields belong to the user themselves.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	callerID, _ := middleware.GetUserID(c)
	if callerID == id {
		// A superadmin demoting or suspending themselves would lock the
		// last key in the safe.
		return response.BadRequest(c, "Cannot modify your own account here")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Error(c, fiber.StatusNotFound, "User not found", response.CodeUserNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.Success(c, user.Public())
}

// DeleteUser handles DELETE /api/users/:id (superadmin)
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	callerID, _ := middleware.GetUserID(c)
	if callerID == id {
		return response.BadRequest(c, "Cannot delete your own account")
	}

	result := h.db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}
	if result.RowsAffected == 0 {
		return response.Error(c, fiber.StatusNotFound, "User not found", response.CodeUserNotFound)
	}

	return response.Success(c, fiber.Map{"message": "User deleted"})
}
