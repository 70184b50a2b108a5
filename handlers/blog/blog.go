package blog

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/response"
	"github.com/databridge-consult/databridge-api/utils/validation"
)

// BlogHandler handles blog post requests
type BlogHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreatePostRequest represents the request body for creating a blog post
type CreatePostRequest struct {
	Slug     string `json:"slug" validate:"required,min=3,max=255"`
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"omitempty,max=50"`
	Excerpt  string `json:"excerpt" validate:"omitempty,max=1000"`
	Publish  bool   `json:"publish"`
}

// UpdatePostRequest represents the request body for updating a blog post
type UpdatePostRequest struct {
	Title    string  `json:"title" validate:"omitempty,min=3,max=255"`
	Content  *string `json:"content"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Excerpt  *string `json:"excerpt" validate:"omitempty,max=1000"`
	Publish  *bool   `json:"publish"`
}

// ListPosts handles GET /api/blog. Only published posts are listed;
// drafts stay invisible until Publish flips PublishedAt.
func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	category := c.Query("category", "")

	query := h.db.Model(&model.BlogPost{}).Where("published_at IS NOT NULL")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count posts")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var posts []model.BlogPost
	if err := query.Order("published_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch posts")
	}

	return response.Paginated(c, posts, pagination)
}

// GetPost handles GET /api/blog/:slug
func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	slug := strings.ToLower(c.Params("slug"))

	var post model.BlogPost
	if err := h.db.Where("slug = ? AND published_at IS NOT NULL", slug).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	return response.Success(c, post)
}

// CreatePost handles POST /api/blog (admin)
func (h *BlogHandler) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))

	var existing model.BlogPost
	if err := h.db.Where("slug = ?", req.Slug).First(&existing).Error; err == nil {
		return response.Conflict(c, "A post with this slug already exists", response.CodeInvalidInput)
	}

	post := model.BlogPost{
		Slug:     req.Slug,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Excerpt:  req.Excerpt,
	}
	if req.Publish {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := h.db.Create(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to create post")
	}

	return response.Created(c, post)
}

// UpdatePost handles PUT /api/blog/:slug (admin)
func (h *BlogHandler) UpdatePost(c *fiber.Ctx) error {
	slug := strings.ToLower(c.Params("slug"))

	var post model.BlogPost
	if err := h.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to fetch post")
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Publish != nil {
		if *req.Publish && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		} else if !*req.Publish {
			post.PublishedAt = nil
		}
	}

	if err := h.db.Save(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to update post")
	}

	return response.Success(c, post)
}

// DeletePost handles DELETE /api/blog/:slug (admin)
func (h *BlogHandler) DeletePost(c *fiber.Ctx) error {
	slug := strings.ToLower(c.Params("slug"))

	result := h.db.Where("slug = ?", slug).Delete(&model.BlogPost{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete post")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Post not found")
	}

	return response.Success(c, fiber.Map{"message": "Post deleted"})
}
