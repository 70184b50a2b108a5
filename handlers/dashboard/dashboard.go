package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// DashboardHandler serves the per-role dashboard summaries. The gate in
// front of these routes already enforced authentication and area access;
// handlers only assemble data.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Home handles GET /dashboard: points the client at its role area.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	role, _ := middleware.GetUserRole(c)
	email, _ := middleware.GetUserEmail(c)

	return response.Success(c, fiber.Map{
		"email": email,
		"role":  role,
		"area":  role.DashboardPath(),
	})
}

// UserArea handles GET /dashboard/user: the caller's own activity.
func (h *DashboardHandler) UserArea(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var orders, requests, unread int64
	h.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&orders)
	h.db.Model(&model.ResearchRequest{}).Where("user_id = ?", userID).Count(&requests)
	h.db.Model(&model.Message{}).Where("receiver_id = ?", userID).Count(&unread)

	return response.Success(c, fiber.Map{
		"orders":            orders,
		"research_requests": requests,
		"messages":          unread,
	})
}

// AdminArea handles GET /dashboard/admin: catalog and workload overview.
func (h *DashboardHandler) AdminArea(c *fiber.Ctx) error {
	var services, products, posts, pendingOrders, pendingRequests int64
	h.db.Model(&model.Service{}).Count(&services)
	h.db.Model(&model.Product{}).Count(&products)
	h.db.Model(&model.BlogPost{}).Count(&posts)
	h.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&pendingOrders)
	h.db.Model(&model.ResearchRequest{}).Where("status = ?", model.RequestPending).Count(&pendingRequests)

	return response.Success(c, fiber.Map{
		"services":                  services,
		"products":                  products,
		"blog_posts":                posts,
		"pending_orders":            pendingOrders,
		"pending_research_requests": pendingRequests,
	})
}

// SuperadminArea handles GET /dashboard/superadmin: account overview.
func (h *DashboardHandler) SuperadminArea(c *fiber.Ctx) error {
	var users, admins, suspended, sessions int64
	h.db.Model(&model.User{}).Count(&users)
	h.db.Model(&model.User{}).Where("role IN ?", []model.Role{model.RoleAdmin, model.RoleSuperadmin}).Count(&admins)
	h.db.Model(&model.User{}).Where("status = ?", model.StatusSuspended).Count(&suspended)
	h.db.Model(&model.Session{}).Count(&sessions)

	return response.Success(c, fiber.Map{
		"users":           users,
		"admins":          admins,
		"suspended_users": suspended,
		"active_sessions": sessions,
	})
}
