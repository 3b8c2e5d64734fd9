package handler

import (
	"errors"
	"time"

	"go-retail-pos/internal/checkout"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty"`
	Error    string      `json:"error,omitempty"`
	Warnings interface{} `json:"warnings,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Response{Success: false, Error: msg})
}

// failWith maps a service or checkout error onto its status code and message.
func failWith(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	return fail(c, status, msg)
}

func classify(err error) (int, string) {
	var vErr *service.ValidationError
	var stageErr *service.StageError

	switch {
	case errors.As(err, &vErr):
		return 400, vErr.Error()
	case errors.As(err, &stageErr):
		return 500, stageErr.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return 400, "Cart is empty!"
	case errors.Is(err, service.ErrEmptySale),
		errors.Is(err, checkout.ErrInsufficientPayment):
		return 400, err.Error()
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrArchiveNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		return 404, err.Error()
	case errors.Is(err, service.ErrProductExists),
		errors.Is(err, service.ErrStaffExists),
		errors.Is(err, checkout.ErrCheckoutInProgress),
		errors.Is(err, checkout.ErrNotConfirming):
		return 409, err.Error()
	}
	return 500, err.Error()
}

// ErrorHandler wraps framework errors and recovered panics in the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return fail(c, code, err.Error())
}

func getUserName(c *fiber.Ctx) string {
	if name, ok := c.Locals("user_name").(string); ok && name != "" {
		return name
	}
	return ""
}

func getUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return role
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parseDate accepts a plain date or an RFC 3339 timestamp. Empty input means no date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date " + s)
}
