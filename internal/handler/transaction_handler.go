package handler

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/receipt"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	service   service.SalesService
	publisher ws.Publisher
	store     receipt.Store
	width     int
}

func NewTransactionHandler(s service.SalesService, publisher ws.Publisher, store receipt.Store, width int) *TransactionHandler {
	return &TransactionHandler{service: s, publisher: publisher, store: store, width: width}
}

// transactionRequest is the raw sale payload. Totals and the discount percent sent by the
// client are ignored; they are recomputed from the items and the absolute discount.
type transactionRequest struct {
	Items          []model.LineItem    `json:"items"`
	Discount       decimal.Decimal     `json:"discount"`
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	CustomerName   string              `json:"customer_name"`
	CashierName    string              `json:"cashier_name"`
	AmountReceived decimal.Decimal     `json:"amount_received"`
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	txs, err := h.service.GetAllTransactions(c.UserContext())
	if err != nil {
		return failWith(c, err)
	}
	return respond(c, 200, txs)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	tx, ok, err := h.lookup(c)
	if !ok {
		return err
	}
	return respond(c, 200, tx)
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}
	if req.CashierName == "" {
		req.CashierName = getUserName(c)
	}

	result, err := h.service.RecordSale(c.UserContext(), service.SaleDraft{
		Items:          req.Items,
		Discount:       req.Discount,
		PaymentMethod:  req.PaymentMethod,
		CustomerName:   req.CustomerName,
		CashierName:    req.CashierName,
		AmountReceived: req.AmountReceived,
	})
	if err != nil {
		return failWith(c, err)
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	h.publisher.Publish("sale_recorded", ids...)

	resp := Response{Success: true, Message: "Transaction recorded", Data: result.Transaction}
	if len(result.StockWarnings) > 0 {
		resp.Warnings = result.StockWarnings
	}
	return c.Status(201).JSON(resp)
}

// GetReceipt answers with the receipt document, or the printable text with ?format=text.
func (h *TransactionHandler) GetReceipt(c *fiber.Ctx) error {
	tx, ok, err := h.lookup(c)
	if !ok {
		return err
	}
	return sendReceipt(c, receipt.FromTransaction(h.store, *tx), h.width)
}

// lookup writes the error response itself when ok is false.
func (h *TransactionHandler) lookup(c *fiber.Ctx) (tx *model.Transaction, ok bool, err error) {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return nil, false, fail(c, 400, "Invalid transaction ID")
	}
	tx, err = h.service.GetTransactionByID(c.UserContext(), id)
	if err != nil {
		return nil, false, failWith(c, err)
	}
	return tx, true, nil
}

func sendReceipt(c *fiber.Ctx, doc receipt.Document, width int) error {
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(receipt.Render(doc, width))
	}
	return respond(c, 200, doc)
}
