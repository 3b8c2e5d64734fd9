package handler

import (
	"go-retail-pos/internal/checkout"
	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CheckoutHandler exposes the till sessions. Every mutating call answers with the
// session snapshot so the client can redraw the cart from one response.
type CheckoutHandler struct {
	registry  *checkout.Registry
	inventory service.InventoryService
	width     int
}

func NewCheckoutHandler(registry *checkout.Registry, inventory service.InventoryService, width int) *CheckoutHandler {
	return &CheckoutHandler{registry: registry, inventory: inventory, width: width}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type completeRequest struct {
	AmountReceived decimal.Decimal `json:"amount_received"`
}

func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	s := h.registry.Create(getUserName(c))
	return respond(c, 201, s.Snapshot())
}

func (h *CheckoutHandler) GetSession(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	return respond(c, 200, s.Snapshot())
}

func (h *CheckoutHandler) DeleteSession(c *fiber.Ctx) error {
	if _, ok, err := h.session(c); !ok {
		return err
	}
	if err := h.registry.Remove(c.Params("id")); err != nil {
		return failWith(c, err)
	}
	return c.JSON(Response{Success: true, Message: "Session closed"})
}

func (h *CheckoutHandler) AddItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}
	id, err := parseUUID(req.ProductID)
	if err != nil {
		return fail(c, 400, "Invalid product ID")
	}

	product, err := h.inventory.GetProduct(c.UserContext(), id)
	if err != nil {
		return failWith(c, err)
	}
	if err := s.AddItem(*product); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (h *CheckoutHandler) UpdateItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}
	if err := s.UpdateQuantity(c.Params("productId"), req.Quantity); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

func (h *CheckoutHandler) RemoveItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	if err := s.RemoveItem(c.Params("productId")); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

func (h *CheckoutHandler) SetOptions(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}

	var opts checkout.Options
	if err := c.BodyParser(&opts); err != nil {
		return fail(c, 400, "Invalid JSON")
	}
	if opts.PaymentMethod != nil {
		if err := service.ValidatePaymentMethod(*opts.PaymentMethod); err != nil {
			return failWith(c, err)
		}
	}
	if err := s.SetOptions(opts); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	if _, err := s.Confirm(); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	if err := s.Cancel(); err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, s.Snapshot())
}

// Complete commits the confirmed sale. A commit failure answers 500 and carries the
// failed session so the cashier can retry with the cart intact.
func (h *CheckoutHandler) Complete(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}

	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	done, err := s.Complete(c.UserContext(), req.AmountReceived)
	if err != nil {
		if s.State() == checkout.StateFailed {
			return c.Status(500).JSON(Response{Success: false, Error: err.Error(), Data: s.Snapshot()})
		}
		return failWith(c, err)
	}

	resp := Response{Success: true, Message: "Sale completed", Data: done}
	if len(done.StockWarnings) > 0 {
		resp.Warnings = done.StockWarnings
	}
	return c.JSON(resp)
}

func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	return sendReceipt(c, s.Receipt(), h.width)
}

// session resolves the :id session. Cashiers only reach their own; admins reach any.
func (h *CheckoutHandler) session(c *fiber.Ctx) (s *checkout.Session, ok bool, err error) {
	owner := getUserName(c)
	if getUserRole(c) == jwt.RoleAdmin {
		owner = ""
	}
	s, err = h.registry.GetOwned(c.Params("id"), owner)
	if err != nil {
		return nil, false, failWith(c, err)
	}
	return s, true, nil
}
