package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"ecohaat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a service error kind to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError logs err and sends it with the status of its kind.
func writeError(c *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	log.Printf("%s %s: %s: %v", c.Method(), c.Path(), message, err)

	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var perr *services.ProductError
	if errors.As(err, &perr) {
		body["product"] = fiber.Map{"id": perr.ProductID, "name": perr.ProductName}
	}
	if status == fiber.StatusInternalServerError {
		// Store and broker details stay in the log.
		body["error"] = "internal error"
	}
	return c.Status(status).JSON(body)
}

// parseBody decodes the JSON body into out and validates it with v.
// It writes the 400 response itself and returns false when the request is bad.
func parseBody(c *fiber.Ctx, v *validator.Validate, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := v.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}
	return true, nil
}

func validationMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorMessages["error"] = err.Error()
		return errorMessages
	}
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", services.ErrValidation, c.Params("id"))
	}
	return uint(id), nil
}

// queryUint parses an optional positive integer query parameter; 0 when absent.
func queryUint(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a positive integer", services.ErrValidation, key)
	}
	return uint(n), nil
}

// pagination reads page (1..MaxInt32/maxSize) and page_size (1..maxSize) and
// returns the matching offset and limit.
func pagination(c *fiber.Ctx, defaultSize, maxSize int) (offset, limit int, err error) {
	page, size := 1, defaultSize
	maxPage := math.MaxInt32 / maxSize
	if raw := c.Query("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page < 1 || page > maxPage {
			return 0, 0, fmt.Errorf("%w: page must be between 1 and %d", services.ErrValidation, maxPage)
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < 1 || size > maxSize {
			return 0, 0, fmt.Errorf("%w: page_size must be between 1 and %d", services.ErrValidation, maxSize)
		}
	}
	return (page - 1) * size, size, nil
}
