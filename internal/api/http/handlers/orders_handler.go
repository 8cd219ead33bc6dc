package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/service"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// OrdersHandler manages the caller's order endpoints.
type OrdersHandler struct {
	service *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{service: orderService}
}

// CreateOrder POST /api/order. Responds with the bare order, not the envelope.
func (h *OrdersHandler) CreateOrder(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrderRequest
	if err := dto.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	lines := make([]service.OrderLineInput, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		lines = append(lines, service.OrderLineInput{ProductID: item.Product, Quantity: item.Quantity})
	}
	order, err := h.service.PlaceOrder(c.UserContext(), identity.UserID, service.PlaceOrderInput{
		Shipping: req.Shipping(),
		Items:    lines,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewOrderResponse(order, false))
}

// ListOrders GET /api/order.
func (h *OrdersHandler) ListOrders(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOrders(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.NewOrderResponse(&orders[i], false))
	}
	return respond(c, http.StatusOK, items, "Orders fetched successfully")
}

// GetOrder GET /api/order/:id.
func (h *OrdersHandler) GetOrder(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.UserContext(), identity.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order, true), "Order fetched successfully")
}

// UpdateOrder PATCH /api/order/:id.
func (h *OrdersHandler) UpdateOrder(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	order, err := h.service.UpdateOrder(c.UserContext(), identity.UserID, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order, true), "Order updated successfully")
}
