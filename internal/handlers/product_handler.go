package handlers

import (
	"strconv"

	"ecohaat/internal/middleware"
	"ecohaat/internal/models"
	"ecohaat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Browsing is public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	sellerOnly := middleware.RequireRole(models.RoleSeller)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/seller/my-products", auth, sellerOnly, h.HandleGetMyProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, sellerOnly, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, sellerOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, middleware.RequireRole(models.RoleSeller, models.RoleAdmin), h.HandleDeleteProduct)
}

// HandleGetProducts lists approved products with optional filters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	offset, limit, err := pagination(c, 12, 50)
	if err != nil {
		return writeError(c, "Invalid pagination", err)
	}
	categoryID, err := queryUint(c, "category_id")
	if err != nil {
		return writeError(c, "Invalid filter", err)
	}

	q := services.CatalogQuery{
		CategoryID: categoryID,
		Material:   c.Query("material"),
		Search:     c.Query("search"),
		Offset:     offset,
		Limit:      limit,
	}
	if raw := c.Query("min_eco_rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 0 || rating > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid filter",
				"error":   "min_eco_rating must be between 0 and 100",
			})
		}
		q.MinEcoRating = &rating
	}

	products, err := h.service.ListApproved(c.UserContext(), q)
	if err != nil {
		return writeError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// CreateProductRequest is the body of a new listing.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	Material      string   `json:"material" validate:"required,max=100"`
	CategoryID    uint     `json:"category_id" validate:"required"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
}

// HandleCreateProduct lists a new product for the calling seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.CurrentUser(c), services.NewProduct{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Material:      req.Material,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
	})
	if err != nil {
		return writeError(c, "Failed to create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetMyProducts lists the calling seller's products.
func (h *ProductHandler) HandleGetMyProducts(c *fiber.Ctx) error {
	status := models.ProductStatus(c.Query("status_filter"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter",
			"error":   "status_filter must be pending, approved or rejected",
		})
	}

	products, err := h.service.ListSellerProducts(c.UserContext(), middleware.CurrentUser(c), status)
	if err != nil {
		return writeError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// UpdateProductRequest holds the optional fields of a listing update.
type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	Material      *string  `json:"material" validate:"omitempty,min=1,max=100"`
	CategoryID    *uint    `json:"category_id" validate:"omitempty,gt=0"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
}

// HandleUpdateProduct updates one of the calling seller's products.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	var req UpdateProductRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), middleware.CurrentUser(c), id, services.ProductChanges{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Material:      req.Material,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
	})
	if err != nil {
		return writeError(c, "Failed to update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid product id", err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return writeError(c, "Failed to delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
		"success": true,
	})
}
