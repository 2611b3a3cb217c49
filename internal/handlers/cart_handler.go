package handlers

import (
	"ecohaat/internal/middleware"
	"ecohaat/internal/models"
	"ecohaat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the buyer's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Every route is buyer-only.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth, middleware.RequireRole(models.RoleBuyer))
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/count", h.HandleGetCount)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the caller's cart lines with product details.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, "Failed to fetch cart", err)
	}
	return c.JSON(items)
}

// AddCartItemRequest is the body of an add-to-cart call. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1"`
}

// HandleAddItem adds a product to the cart or raises its quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.CurrentUser(c).ID, req.ProductID, quantity)
	if err != nil {
		return writeError(c, "Failed to add to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateCartItemRequest is the body of a quantity change.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// HandleUpdateItem changes the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid cart item id", err)
	}
	var req UpdateCartItemRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.UpdateItem(c.UserContext(), middleware.CurrentUser(c).ID, id, req.Quantity)
	if err != nil {
		return writeError(c, "Failed to update cart", err)
	}
	return c.JSON(item)
}

// HandleRemoveItem removes a single cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid cart item id", err)
	}
	if err := h.service.RemoveItem(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return writeError(c, "Failed to remove from cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
		"success": true,
	})
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return writeError(c, "Failed to clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared successfully",
		"success": true,
	})
}

// HandleGetCount returns the number of units in the cart.
func (h *CartHandler) HandleGetCount(c *fiber.Ctx) error {
	count, err := h.service.CountItems(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, "Failed to get cart count", err)
	}
	return c.JSON(fiber.Map{"count": count})
}
