package handler

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	service service.StaffService
}

func NewStaffHandler(s service.StaffService) *StaffHandler {
	return &StaffHandler{service: s}
}

type staffRequest struct {
	Name     string          `json:"name"`
	Role     model.StaffRole `json:"role"`
	Email    string          `json:"email"`
	JoinDate string          `json:"join_date"`
}

func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.service.GetAllStaff(c.UserContext())
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, staff)
}

func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req staffRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	joined, err := parseDate(req.JoinDate)
	if err != nil {
		return failWith(c, &service.ValidationError{Field: "JoinDate", Tag: "date"})
	}

	member := &model.Staff{Name: req.Name, Role: req.Role, Email: req.Email, JoinDate: joined}
	if err := h.service.CreateStaff(c.UserContext(), member); err != nil {
		return failWith(c, err)
	}
	return c.Status(201).JSON(Response{Success: true, Message: "Staff member added", Data: member})
}
