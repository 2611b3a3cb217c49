package handlers

import (
	"ecohaat/internal/middleware"
	"ecohaat/internal/models"
	"ecohaat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves moderation, category and dashboard endpoints.
type AdminHandler struct {
	admin      *services.AdminService
	categories *services.CategoryService
	validate   *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService, categories *services.CategoryService) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		categories: categories,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the admin routes. Listing categories is public.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/categories", h.HandleGetCategories)
	adminRoutes.Post("/categories", auth, adminOnly, h.HandleCreateCategory)
	adminRoutes.Delete("/categories/:id", auth, adminOnly, h.HandleDeleteCategory)

	adminRoutes.Get("/products/pending", auth, adminOnly, h.HandleGetPendingProducts)
	adminRoutes.Get("/products/all", auth, adminOnly, h.HandleGetAllProducts)
	adminRoutes.Post("/products/:id/approve", auth, adminOnly, h.HandleApproveProduct)
	adminRoutes.Post("/products/:id/reject", auth, adminOnly, h.HandleRejectProduct)
	adminRoutes.Put("/products/:id/eco-rating", auth, adminOnly, h.HandleUpdateEcoRating)

	adminRoutes.Get("/users", auth, adminOnly, h.HandleGetUsers)
	adminRoutes.Get("/stats", auth, adminOnly, h.HandleGetStats)
}

// HandleGetPendingProducts returns the moderation queue.
func (h *AdminHandler) HandleGetPendingProducts(c *fiber.Ctx) error {
	products, err := h.admin.PendingProducts(c.UserContext())
	if err != nil {
		return writeError(c, "Could not retrieve pending products", err)
	}
	return c.JSON(products)
}

// HandleGetAllProducts pages through products of any status.
func (h *AdminHandler) HandleGetAllProducts(c *fiber.Ctx) error {
	status := models.ProductStatus(c.Query("status_filter"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter",
			"error":   "status_filter must be pending, approved or rejected",
		})
	}
	offset, limit, err := pagination(c, 20, 100)
	if err != nil {
		return writeError(c, "Invalid pagination", err)
	}

	products, err := h.admin.AllProducts(c.UserContext(), status, offset, limit)
	if err != nil {
		return writeError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// EcoRatingRequest carries the eco rating for approval or re-rating.
type EcoRatingRequest struct {
	EcoRating *int `json:"eco_rating" validate:"required,gte=0,lte=100"`
}

// RejectProductRequest carries the reason shown to the seller.
type RejectProductRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required,max=1000"`
}

// HandleApproveProduct approves a product and sets its eco rating.
func (h *AdminHandler) HandleApproveProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	var req EcoRatingRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.admin.ApproveProduct(c.UserContext(), id, *req.EcoRating)
	if err != nil {
		return writeError(c, "Failed to approve product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product approved successfully",
		"product": product,
	})
}

// HandleRejectProduct rejects a product with a reason.
func (h *AdminHandler) HandleRejectProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	var req RejectProductRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.admin.RejectProduct(c.UserContext(), id, req.RejectionReason)
	if err != nil {
		return writeError(c, "Failed to reject product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product rejected",
		"product": product,
	})
}

// HandleUpdateEcoRating changes the eco rating of a product.
func (h *AdminHandler) HandleUpdateEcoRating(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	var req EcoRatingRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.admin.SetEcoRating(c.UserContext(), id, *req.EcoRating)
	if err != nil {
		return writeError(c, "Failed to update eco rating", err)
	}
	return c.JSON(product)
}

// HandleGetCategories lists every category.
func (h *AdminHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// CreateCategoryRequest is the body of a new category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon" validate:"omitempty,max=255"`
}

// HandleCreateCategory adds a category.
func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := h.categories.CreateCategory(c.UserContext(), &category); err != nil {
		return writeError(c, "Failed to create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory removes an unused category.
func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid category id", err)
	}
	if err := h.categories.DeleteCategory(c.UserContext(), id); err != nil {
		return writeError(c, "Failed to delete category", err)
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
		"success": true,
	})
}

// HandleGetUsers pages through profiles, optionally filtered by role.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter",
			"error":   "role must be admin, seller or buyer",
		})
	}
	offset, limit, err := pagination(c, 20, 100)
	if err != nil {
		return writeError(c, "Invalid pagination", err)
	}

	users, err := h.admin.ListUsers(c.UserContext(), role, offset, limit)
	if err != nil {
		return writeError(c, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleGetStats returns the dashboard counters.
func (h *AdminHandler) HandleGetStats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return writeError(c, "Could not retrieve stats", err)
	}
	return c.JSON(stats)
}
