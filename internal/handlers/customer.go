package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/fnf/internal/models"
	"github.com/example/fnf/internal/services"
	"github.com/example/fnf/internal/utils"
)

// CustomerHandler manages customer endpoints.
type CustomerHandler struct {
	customers *services.CustomerService
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// ListCustomers returns customers, newest first.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	customers, total, err := h.customers.List(c.Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"customers": customers,
		"pagination": fiber.Map{
			"page":  pg.Page,
			"limit": pg.Limit,
			"total": total,
			"pages": (total + int64(pg.Limit) - 1) / int64(pg.Limit),
		},
	})
}

// GetCustomer returns a single customer by ID.
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	customer, err := h.customers.Get(c.Context(), id)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{"success": true, "customer": customer})
}

type updateCustomerRequest struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Address   *models.Address `json:"address"`
}

// UpdateCustomer overwrites editable profile fields.
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customer, err := h.customers.Update(c.Context(), id, services.CustomerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
	})
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

// DeleteCustomer removes a customer record.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	customer, err := h.customers.Delete(c.Context(), id)
	if err != nil {
		return translate(err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Customer deleted successfully",
		"customer": customer,
	})
}
