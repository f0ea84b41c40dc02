package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"storefront/internal/logger"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrHasDependents):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responds with the status mapped from err and a
// {"message","error"} body.
func writeError(c *fiber.Ctx, err error, message string) error {
	status := statusFor(err)
	log := logger.FromCtx(c)
	if status >= fiber.StatusInternalServerError {
		log.Error(message, "error", err, "path", c.Path())
	} else {
		log.Debug(message, "error", err, "status", status)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// parseBody decodes the request body into dst and validates it. When it
// returns false the error response has already been written and the caller
// returns err.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		logger.FromCtx(c).Debug("error parsing request body", "error", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, writeError(c, err, "Validation failed")
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// validationError responds like a failed struct validation on a single field.
func validationError(c *fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  map[string]string{field: msg},
	})
}

// idParam reads a positive integer route parameter. Anything else cannot
// name a record and yields ErrNotFound.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, services.ErrNotFound)
	}
	return uint(id), nil
}
