package handler

import (
	"errors"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login handles till authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	if req.Role == "" || req.Password == "" {
		return fail(c, 400, "Role and password are required")
	}

	response, err := h.authService.Login(req.Role, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRole) {
			return fail(c, 400, err.Error())
		}
		return fail(c, 401, err.Error())
	}

	return respond(c, 200, response)
}
