package handlers

import (
	"fmt"

	"ecohaat/internal/middleware"
	"ecohaat/internal/models"
	"ecohaat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	buyerOnly := middleware.RequireRole(models.RoleBuyer)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", auth, buyerOnly, h.HandleCreateOrder)
	orderRoutes.Get("/", auth, buyerOnly, h.HandleGetOrders)
	orderRoutes.Get("/admin/all", auth, adminOnly, h.HandleGetAllOrders)
	orderRoutes.Get("/seller/my-orders", auth, middleware.RequireRole(models.RoleSeller), h.HandleGetSellerOrders)
	orderRoutes.Get("/:id", auth, h.HandleGetOrderByID)
	orderRoutes.Put("/:id/status", auth, adminOnly, h.HandleUpdateOrderStatus)
}

// CreateOrderRequest is the body of a checkout.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=1000"`
}

// HandleCreateOrder places an order from the caller's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.PlaceOrder(c.UserContext(), middleware.CurrentUser(c).ID, req.ShippingAddress)
	if err != nil {
		return writeError(c, "Failed to create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return writeError(c, "Invalid filter", err)
	}
	orders, err := h.service.ListBuyerOrders(c.UserContext(), middleware.CurrentUser(c).ID, status)
	if err != nil {
		return writeError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with its items.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid order id", err)
	}
	order, err := h.service.GetOrder(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return writeError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleGetAllOrders pages through every order.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return writeError(c, "Invalid filter", err)
	}
	offset, limit, err := pagination(c, 20, 100)
	if err != nil {
		return writeError(c, "Invalid pagination", err)
	}
	orders, err := h.service.ListAllOrders(c.UserContext(), status, offset, limit)
	if err != nil {
		return writeError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetSellerOrders lists orders that contain the caller's products.
func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListSellerOrders(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return writeError(c, "Could not retrieve seller orders", err)
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus sets the status of an order. The status comes from
// the JSON body or, failing that, the new_status query parameter.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, "Invalid order id", err)
	}

	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&updateData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body for status update",
				"error":   err.Error(),
			})
		}
	}
	if updateData.Status == "" {
		updateData.Status = models.OrderStatus(c.Query("new_status"))
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), id, updateData.Status)
	if err != nil {
		return writeError(c, "Failed to update order status", err)
	}
	return c.JSON(order)
}

func statusFilter(c *fiber.Ctx) (models.OrderStatus, error) {
	status := models.OrderStatus(c.Query("status_filter"))
	if status != "" && !status.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", services.ErrValidation, status)
	}
	return status, nil
}
