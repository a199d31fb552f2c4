package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/repository"
	"github.com/example/fnf/internal/services"
	"github.com/example/fnf/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type createOrderRequest struct {
	CustomerID      string             `json:"customer_id"`
	Items           []orderItemRequest `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	DeliveryAddress *models.Address    `json:"delivery_address"`
	PaymentMethod   string             `json:"payment_method"`
	Notes           string             `json:"notes"`
}

// CreateOrder places a new order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Customer ID, items, and total amount are required")
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	order, err := h.orders.Create(c.Context(), services.CreateOrderInput{
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		return translate(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

// ListOrders returns orders with optional status/customer filters.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	filter := repository.OrderFilter{
		Status: c.Query("status"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer_id")
		}
		filter.CustomerID = &id
	}

	orders, total, err := h.orders.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"pagination": fiber.Map{
			"page":  pg.Page,
			"limit": pg.Limit,
			"total": total,
			"pages": (total + int64(pg.Limit) - 1) / int64(pg.Limit),
		},
	})
}

// GetOrder returns a single order by ID.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(c.Context(), id)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

type updateOrderRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason"`
}

// UpdateOrder moves an order to a new status.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status == "" {
		order, err := h.orders.Get(c.Context(), id)
		if err != nil {
			return translate(err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Order updated successfully", "order": order})
	}

	order, err := h.orders.UpdateStatus(c.Context(), id, req.Status, req.CancellationReason)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order updated successfully",
		"order":   order,
	})
}

// DeleteOrder removes an order. Customer statistics stay as they were.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.orders.Delete(c.Context(), id); err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order deleted successfully",
	})
}

// OrderStats returns summary statistics over an optional date window.
func (h *OrderHandler) OrderStats(c *fiber.Ctx) error {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if parsed, err = time.Parse("2006-01-02", raw); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
			}
		}
		start = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if parsed, err = time.Parse("2006-01-02", raw); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
			}
		}
		end = &parsed
	}

	stats, err := h.orders.Summary(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
