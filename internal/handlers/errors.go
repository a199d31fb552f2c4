package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/fnf/internal/services"
)

// translate maps service errors onto HTTP errors. Anything without a kind is
// passed through for the recover middleware to turn into a 500.
func translate(err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		return err
	}

	switch svcErr.Kind {
	case services.KindInvalidInput:
		return fiber.NewError(fiber.StatusBadRequest, svcErr.Message)
	case services.KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, svcErr.Message)
	case services.KindConflict:
		return fiber.NewError(fiber.StatusConflict, svcErr.Message)
	case services.KindDeliveryFailed:
		return fiber.NewError(fiber.StatusBadGateway, svcErr.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, svcErr.Message)
	}
}
