package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// OrderHandler handles order requests
type OrderHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

// UpdateOrderStatusRequest represents a status transition (admin)
type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=pending paid shipped completed cancelled"`
}

// ListOrders handles GET /api/orders. Regular users see their own orders;
// admins see everyone's.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Order{})
	if !role.Satisfies(model.RoleAdmin) {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count orders")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var orders []model.Order
	if err := query.Preload("Product").
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch orders")
	}

	return response.Paginated(c, orders, pagination)
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)
	id := c.Params("id")

	var order model.Order
	if err := h.db.Preload("Product").Where("id = ?", id).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to fetch order")
	}

	// Hide other users' orders from non-admins as not-found rather than
	// forbidden, so order IDs cannot be probed.
	if order.UserID != userID && !role.Satisfies(model.RoleAdmin) {
		return response.NotFound(c, "Order not found")
	}

	return response.Success(c, order)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var product model.Product
	if err := h.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to fetch product")
	}

	if product.Stock < req.Quantity {
		return response.BadRequest(c, "Insufficient stock")
	}

	order := model.Order{
		UserID:      userID,
		ProductID:   product.ID,
		Status:      model.OrderPending,
		TotalAmount: product.Price * float64(req.Quantity),
	}

	// Decrement stock and create the order atomically.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Product{}).
			Where("id = ? AND stock >= ?", product.ID, req.Quantity).
			Update("stock", gorm.Expr("stock - ?", req.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.BadRequest(c, "Insufficient stock")
		}
		return response.InternalServerError(c, "Failed to create order")
	}

	return response.Created(c, order)
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var order model.Order
	if err := h.db.Where("id = ?", id).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to fetch order")
	}

	order.Status = req.Status
	if err := h.db.Save(&order).Error; err != nil {
		return response.InternalServerError(c, "Failed to update order")
	}

	return response.Success(c, order)
}
